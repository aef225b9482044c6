package cmd

import "encoding/json"

type StructureCmd struct {
	Input string `help:"Emails input file (.csv or .json); overrides configured path."`
	Force bool   `help:"Reprocess every email and replace existing outputs."`
}

func (s *StructureCmd) Run(ctx *Context) error {
	summary, err := runStructure(ctx, s.Input, s.Force)
	if err != nil {
		return err
	}
	return reportStructure(ctx, summary)
}

func reportStructure(ctx *Context, summary StructureSummary) error {
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	if summary.EmailsProcessed == 0 {
		ctx.UI.Infof("Nothing to do: all %d emails already processed.", summary.EmailsTotal)
		return nil
	}
	ctx.UI.Successf("Processed %d of %d emails (%d already done): %d jobs extracted, %d added, %d replaced, %d total.",
		summary.EmailsProcessed, summary.EmailsTotal, summary.EmailsSkipped,
		summary.JobsEmitted, summary.JobsAdded, summary.JobsReplaced, summary.JobsTotal)
	return nil
}
