package cmd

import "github.com/alecthomas/kong"

type CLI struct {
	Config  string `help:"Path to config file." env:"JOBSIFT_CONFIG"`
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version    VersionCmd    `cmd:"" help:"Print version."`
	ConfigCmd  ConfigCmd     `cmd:"" name:"config" help:"Manage configuration."`
	Structure  StructureCmd  `cmd:"" help:"Extract structured jobs from placement emails."`
	Prioritize PrioritizeCmd `cmd:"" help:"Score structured jobs against the user profile."`
	Run        RunCmd        `cmd:"" help:"Run the full pipeline: structure then prioritize."`
	Top        TopCmd        `cmd:"" help:"Show the highest ranked jobs."`
}

func NewCLI() *CLI {
	return &CLI{}
}
