package cmd

import (
	"github.com/lepinkainen/videoreport/types"
)

// StatsCmd prints library-wide statistics without running the filtered video query
type StatsCmd struct {
	Library string `arg:"" optional:"" name:"library" help:"Photos library bundle or Photos.sqlite file" default:"${library}"`
	Format  string `short:"f" help:"Output format; csv falls back to text" enum:"table,csv,json" default:"${format}"`
	Output  string `short:"o" help:"Write statistics to a file instead of stdout" type:"path"`
}

func (cmd *StatsCmd) Run(appCtx *types.AppContext) error {
	report := &ReportCmd{
		Library:   cmd.Library,
		Format:    cmd.Format,
		Output:    cmd.Output,
		StatsOnly: true,
	}
	return report.Run(appCtx)
}
