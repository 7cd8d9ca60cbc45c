package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lepinkainen/videoreport/catalog"
	"github.com/lepinkainen/videoreport/logging"
	"github.com/lepinkainen/videoreport/report"
	"github.com/lepinkainen/videoreport/types"
	"github.com/lepinkainen/videoreport/ui"
	"github.com/lepinkainen/videoreport/utils"
	"github.com/lepinkainen/videoreport/video"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// ReportCmd lists the videos in a Photos library that match the given filters
type ReportCmd struct {
	Library string `arg:"" optional:"" name:"library" help:"Photos library bundle or Photos.sqlite file" default:"${library}"`

	Limit     int    `short:"n" help:"Maximum number of videos to report, 0 for all" default:"${limit}"`
	Format    string `short:"f" help:"Output format" enum:"table,csv,json" default:"${format}"`
	Output    string `short:"o" help:"Write the report to a file instead of stdout" type:"path"`
	Sort      string `help:"Sort order" enum:"duration,date,size,filename" default:"${sort}"`
	StatsOnly bool   `name:"stats-only" help:"Only show library-wide statistics"`
	GroupBy   string `name:"group-by" help:"Group videos by creation period" enum:",day,month,year" default:""`

	MinDuration *float64 `name:"min-duration" help:"Minimum duration in seconds" group:"Filters"`
	MaxDuration *float64 `name:"max-duration" help:"Maximum duration in seconds" group:"Filters"`
	DateFrom    string   `name:"date-from" help:"Only videos created on or after this date (YYYY-MM-DD)" group:"Filters"`
	DateTo      string   `name:"date-to" help:"Only videos created on or before this date (YYYY-MM-DD)" group:"Filters"`
	Resolution  string   `help:"Only videos in this resolution class" enum:",sd,hd,fullhd,4k,8k" default:"" group:"Filters"`
	Search      string   `short:"s" help:"Only videos whose filename contains this text (case-sensitive)" group:"Filters"`
}

// Criteria converts the command-line filters into query criteria
func (cmd *ReportCmd) Criteria() (video.FilterCriteria, error) {
	c := video.FilterCriteria{
		MinDuration: cmd.MinDuration,
		MaxDuration: cmd.MaxDuration,
		SearchTerm:  cmd.Search,
		SortBy:      video.ParseSortField(cmd.Sort),
		Limit:       cmd.Limit,
	}

	if cmd.DateFrom != "" {
		t, err := video.ParseCalendarDate(cmd.DateFrom)
		if err != nil {
			return c, fmt.Errorf("invalid --date-from: %w", err)
		}
		c.DateFrom = &t
	}
	if cmd.DateTo != "" {
		t, err := video.ParseDateUpperBound(cmd.DateTo)
		if err != nil {
			return c, fmt.Errorf("invalid --date-to: %w", err)
		}
		c.DateBefore = &t
	}

	if cmd.Resolution != "" {
		r, err := video.ParseResolution(cmd.Resolution)
		if err != nil {
			return c, fmt.Errorf("invalid --resolution: %w", err)
		}
		c.Resolution = &r
	}

	g, err := video.ParseGranularity(cmd.GroupBy)
	if err != nil {
		return c, fmt.Errorf("invalid --group-by: %w", err)
	}
	c.GroupBy = g

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid filter: %w", err)
	}
	return c, nil
}

func (cmd *ReportCmd) Run(appCtx *types.AppContext) error {
	ctx := context.Background()

	criteria, err := cmd.Criteria()
	if err != nil {
		return err
	}

	lib, err := openLibrary(ctx, appCtx, cmd.Library)
	if err != nil {
		return err
	}
	defer lib.Close()

	if cmd.StatsOnly {
		return cmd.writeOutput(appCtx, func(w io.Writer, opts report.TableOptions) error {
			return renderStats(w, report.Format(cmd.Format), lib.Stats(ctx), opts)
		})
	}

	logging.Debug().
		Str("version", appCtx.VersionString()).
		Str("library", lib.Path()).
		Interface("criteria", criteria).
		Msg("Querying videos")
	records, err := lib.Assets(ctx, criteria)
	if err != nil {
		if catalog.IsFatal(err) {
			return err
		}
		logging.Debug().Err(err).Str("kind", catalog.KindQuery.String()).Msg("Video query failed")
		fmt.Fprintf(appCtx.ErrOut(), "⚠️  %v, reporting no videos\n", err)
		records = nil
	}
	logging.Info().Int("count", len(records)).Msg("Videos matched")

	err = cmd.writeOutput(appCtx, func(w io.Writer, opts report.TableOptions) error {
		return renderReport(w, report.Format(cmd.Format), criteria.GroupBy, records, opts)
	})
	if err != nil {
		return err
	}

	// Library statistics follow a terminal table
	if report.Format(cmd.Format) == report.FormatTable && cmd.Output == "" {
		out := appCtx.Out()
		fmt.Fprintln(out)
		return report.WriteStats(out, lib.Stats(ctx), report.TableOptions{Styled: isTerminal(out)})
	}
	return nil
}

// writeOutput sends rendered output to stdout, or to the output file with a
// progress bar on interactive terminals
func (cmd *ReportCmd) writeOutput(appCtx *types.AppContext, render func(io.Writer, report.TableOptions) error) error {
	if cmd.Output == "" {
		out := appCtx.Out()
		if err := render(out, report.TableOptions{Styled: isTerminal(out)}); err != nil {
			return catalog.NewError(catalog.KindOutputWrite, "write report", err)
		}
		return nil
	}

	f, err := os.Create(cmd.Output)
	if err != nil {
		return catalog.NewError(catalog.KindOutputWrite, "create output file", err)
	}

	var w io.Writer = f
	var bar *progressbar.ProgressBar
	if isTerminal(appCtx.ErrOut()) {
		bar = progressbar.NewOptions64(-1,
			progressbar.OptionSetWriter(appCtx.ErrOut()),
			progressbar.OptionSetDescription("Writing report"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		w = io.MultiWriter(f, bar)
	}

	renderErr := render(w, report.TableOptions{})
	closeErr := f.Close()
	if bar != nil {
		_ = bar.Finish()
	}
	if renderErr != nil {
		return catalog.NewError(catalog.KindOutputWrite, "write report", renderErr)
	}
	if closeErr != nil {
		return catalog.NewError(catalog.KindOutputWrite, "close output file", closeErr)
	}

	fmt.Fprintf(appCtx.ErrOut(), "%s\n", styleFor(appCtx.ErrOut(), ui.SuccessStyle.Render, fmt.Sprintf("✅ Report written to %s", cmd.Output)))
	return nil
}

func renderReport(w io.Writer, format report.Format, groupBy video.Granularity, records []video.AssetRecord, opts report.TableOptions) error {
	if groupBy != video.GroupNone {
		groups := video.Group(records, groupBy)
		switch format {
		case report.FormatCSV:
			return report.WriteGroupedCSV(w, groups)
		case report.FormatJSON:
			return report.WriteGroupedJSON(w, groups)
		default:
			return report.WriteGroupedTable(w, groups, opts)
		}
	}

	switch format {
	case report.FormatCSV:
		return report.WriteCSV(w, records)
	case report.FormatJSON:
		return report.WriteJSON(w, records)
	default:
		return report.WriteTable(w, records, opts)
	}
}

func renderStats(w io.Writer, format report.Format, s catalog.LibraryStats, opts report.TableOptions) error {
	if format == report.FormatJSON {
		return report.WriteStatsJSON(w, s)
	}
	return report.WriteStats(w, s, opts)
}

// openLibrary resolves the library path and opens its catalog. Every failure here is fatal.
func openLibrary(ctx context.Context, appCtx *types.AppContext, path string) (*catalog.Library, error) {
	dbPath, err := utils.ResolveLibraryPath(path)
	if err != nil {
		return nil, catalog.NewError(catalog.KindConnection, "open library", err)
	}

	if marker, ok := utils.NetworkLocation(dbPath); ok {
		logging.Debug().Str("marker", marker).Msg("Library looks network-mounted")
		fmt.Fprintf(appCtx.ErrOut(), "⚠️  Library appears to be on a network drive (%s), queries may be slow\n", marker)
	}

	return catalog.Open(ctx, dbPath)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func styleFor(w io.Writer, render func(...string) string, text string) string {
	if !isTerminal(w) {
		return text
	}
	return render(text)
}
