package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"
)

// VersionCmd prints the build version plus the Go runtime and platform
// it was compiled for.
type VersionCmd struct{}

func (v *VersionCmd) Run(ctx *Context) error {
	if ctx.JSONOutput {
		return json.NewEncoder(ctx.Out).Encode(map[string]string{
			"version":  ctx.Version,
			"go":       runtime.Version(),
			"platform": runtime.GOOS + "/" + runtime.GOARCH,
		})
	}
	_, err := fmt.Fprintf(ctx.Out, "jobsift %s (%s, %s/%s)\n",
		ctx.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return err
}
