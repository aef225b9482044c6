package cmd

import "encoding/json"

// RunCmd chains the two pipeline phases. Each phase keeps its own state
// file, so a failure in prioritize never loses structuring progress.
type RunCmd struct {
	Input string `help:"Emails input file (.csv or .json); overrides configured path."`
	Force bool   `help:"Reprocess everything and replace existing outputs."`
}

func (r *RunCmd) Run(ctx *Context) error {
	structure, err := runStructure(ctx, r.Input, r.Force)
	if err != nil {
		return err
	}
	prioritizeSummary, err := runPrioritize(ctx, r.Force)
	if err != nil {
		return err
	}

	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Structure  StructureSummary  `json:"structure"`
			Prioritize PrioritizeSummary `json:"prioritize"`
		}{structure, prioritizeSummary})
	}
	if err := reportStructure(ctx, structure); err != nil {
		return err
	}
	return reportPrioritize(ctx, prioritizeSummary)
}
