package cmd

import "encoding/json"

type PrioritizeCmd struct {
	Force bool `help:"Rescore every job and replace existing outputs."`
}

func (p *PrioritizeCmd) Run(ctx *Context) error {
	summary, err := runPrioritize(ctx, p.Force)
	if err != nil {
		return err
	}
	return reportPrioritize(ctx, summary)
}

func reportPrioritize(ctx *Context, summary PrioritizeSummary) error {
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	if summary.JobsScored == 0 {
		ctx.UI.Infof("Nothing to do: all %d jobs already scored.", summary.JobsTotal)
		return nil
	}
	ctx.UI.Successf("Scored %d of %d jobs (%d already done), %d in store.",
		summary.JobsScored, summary.JobsTotal, summary.JobsSkipped, summary.ScoredInStore)
	for _, tier := range []string{"Highly Recommended", "Recommended", "Consider", "Not Recommended"} {
		if n := summary.TierCounts[tier]; n > 0 {
			ctx.UI.Infof("  %-18s %d", tier, n)
		}
	}
	return nil
}
