package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jobsift/jobsift/internal/export"
	"github.com/jobsift/jobsift/internal/prioritize"
)

type TopCmd struct {
	Limit  int    `short:"n" help:"Number of jobs to show (default from config)."`
	Input  string `help:"Prioritized output to read (.json or .csv); overrides configured path."`
	Format string `help:"Output format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
	Output string `name:"output" short:"o" help:"Write output to a file."`
}

func (t *TopCmd) Run(ctx *Context) error {
	input := t.Input
	if input == "" {
		input = ctx.Config.InputOutput.PrioritizedJSON
	}
	ranked, err := loadRanked(input)
	if err != nil {
		return err
	}
	if len(ranked) == 0 {
		return fmt.Errorf("no prioritized jobs at %s; run prioritize first", input)
	}

	n := t.Limit
	if n == 0 {
		n = ctx.Config.InputOutput.TopN
	}
	top := prioritize.Top(ranked, n)

	format := export.Format(t.Format)
	switch {
	case t.Format != "":
	case ctx.JSONOutput:
		format = export.FormatJSON
	case ctx.PlainText:
		format = export.FormatTSV
	case t.Output != "":
		format = formatForPath(t.Output)
	default:
		format = export.FormatTable
	}

	out := ctx.Out
	if t.Output != "" {
		f, err := os.Create(t.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	opts := export.WriteOptions{ShowScores: true}
	if t.Output == "" {
		opts.UI = ctx.UI
	}
	if err := export.WriteJobs(out, top, format, opts); err != nil {
		return err
	}
	if t.Output != "" {
		ctx.UI.Successf("Wrote %d jobs to %s", len(top), t.Output)
	}
	return nil
}

func formatForPath(path string) export.Format {
	switch filepath.Ext(path) {
	case ".json":
		return export.FormatJSON
	case ".csv":
		return export.FormatCSV
	case ".tsv":
		return export.FormatTSV
	case ".md":
		return export.FormatMarkdown
	default:
		return export.FormatTable
	}
}
