package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/jobsift/jobsift/internal/config"
)

type ConfigCmd struct {
	Init InitConfigCmd `cmd:"" help:"Write the default config file."`
	Path PathConfigCmd `cmd:"" help:"Print the config file path."`
	Show ShowConfigCmd `cmd:"" help:"Print the effective configuration."`
}

type InitConfigCmd struct{}

type PathConfigCmd struct{}

type ShowConfigCmd struct{}

func (c *InitConfigCmd) Run(ctx *Context) error {
	path, created, err := config.Init()
	if err != nil {
		return err
	}
	if !created {
		ctx.UI.Infof("Config already initialized at %s", path)
		return nil
	}
	ctx.UI.Successf("Created: %s", path)
	return nil
}

func (c *PathConfigCmd) Run(ctx *Context) error {
	path := ctx.ConfigPath
	if path == "" {
		var err error
		path, err = config.ConfigPath()
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(ctx.Out, path)
	return err
}

func (c *ShowConfigCmd) Run(ctx *Context) error {
	data, err := json.MarshalIndent(ctx.Config, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.Out, string(data))
	return err
}
