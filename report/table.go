package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lepinkainen/videoreport/ui"
	"github.com/lepinkainen/videoreport/video"
	"github.com/mattn/go-runewidth"
)

// MaxFilenameWidth is the filename column width; longer names end in "..."
const MaxFilenameWidth = 43

type column struct {
	title string
	width int
	right bool
}

var tableColumns = []column{
	{title: "#", width: 5, right: true},
	{title: "Duration", width: 9, right: true},
	{title: "Filename", width: MaxFilenameWidth},
	{title: "Created", width: 19},
	{title: "Resolution", width: 10},
	{title: "Est. MB", width: 9, right: true},
	{title: "Flags", width: 18},
}

// TableOptions controls terminal styling of the table renderer
type TableOptions struct {
	// Styled applies lipgloss colors; leave false when writing to files or pipes
	Styled bool
}

// errWriter remembers the first write error so rendering code can stay linear
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

type tableWriter struct {
	*errWriter
	opts TableOptions
}

func newTableWriter(w io.Writer, opts TableOptions) *tableWriter {
	return &tableWriter{errWriter: &errWriter{w: w}, opts: opts}
}

func (tw *tableWriter) style(s lipgloss.Style, text string) string {
	if !tw.opts.Styled {
		return text
	}
	return s.Render(text)
}

// WriteTable renders rows as an aligned table followed by a summary block
func WriteTable(w io.Writer, records []video.AssetRecord, opts TableOptions) error {
	tw := newTableWriter(w, opts)
	rows := NewRows(records)

	if len(rows) == 0 {
		tw.writeNoVideos()
		return tw.err
	}

	tw.writeRows(rows)
	tw.printf("\n")
	tw.writeSummary(Summarize(rows))
	return tw.err
}

// WriteGroupedTable renders one table per group with a subtotal line, then an overall summary
func WriteGroupedTable(w io.Writer, groups []video.AssetGroup, opts TableOptions) error {
	tw := newTableWriter(w, opts)

	if len(groups) == 0 {
		tw.writeNoVideos()
		return tw.err
	}

	var all []Row
	for _, g := range groups {
		rows := NewRows(g.Records)
		all = append(all, rows...)

		heading := fmt.Sprintf("%s (%d videos)", g.Key, g.Count())
		tw.printf("%s\n", tw.style(ui.GroupStyle, heading))
		tw.writeRows(rows)
		tw.printf("%s\n\n", tw.style(ui.InfoStyle, fmt.Sprintf("Subtotal: %d videos, %s, %.1f MB estimated",
			g.Count(), video.FormatDuration(g.TotalDuration), round1(g.TotalSizeMB))))
	}

	tw.writeSummary(Summarize(all))
	return tw.err
}

// writeNoVideos replaces the table with a notice; the summary still follows with zero counts
func (tw *tableWriter) writeNoVideos() {
	tw.printf("%s\n\n", tw.style(ui.WarningStyle, "No videos found matching the criteria."))
	tw.writeSummary(Summarize(nil))
}

func (tw *tableWriter) writeRows(rows []Row) {
	header := make([]string, len(tableColumns))
	rule := make([]string, len(tableColumns))
	for i, c := range tableColumns {
		header[i] = pad(c.title, c.width, c.right)
		rule[i] = strings.Repeat("-", c.width)
	}
	tw.printf("%s\n", tw.style(ui.TableHeaderStyle, strings.Join(header, "  ")))
	tw.printf("%s\n", strings.Join(rule, "  "))

	for _, r := range rows {
		cells := []string{
			fmt.Sprintf("%d", r.Rank),
			r.DurationFormatted,
			runewidth.Truncate(r.Filename, MaxFilenameWidth, "..."),
			r.DateDisplay(),
			r.Resolution.String(),
			sizeText(r.EstimatedSizeMB),
			r.Flags(),
		}
		for i, c := range tableColumns {
			cells[i] = pad(cells[i], c.width, c.right)
		}
		tw.printf("%s\n", strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

func (tw *tableWriter) writeSummary(s Summary) {
	label := func(text string) string { return tw.style(ui.LabelStyle, text) }

	tw.printf("%s\n", tw.style(ui.HeaderStyle, "Summary"))
	tw.printf("  %s %d\n", label(pad("Videos:", 18, false)), s.Count)
	tw.printf("  %s %s\n", label(pad("Total duration:", 18, false)), video.FormatDuration(s.TotalDuration))
	tw.printf("  %s %s\n", label(pad("Average duration:", 18, false)), video.FormatDuration(s.AverageDuration()))
	size := fmt.Sprintf("%.1f MB", s.TotalSizeMB)
	if s.SizeUnavailable > 0 {
		size += fmt.Sprintf(" (%d without estimate)", s.SizeUnavailable)
	}
	tw.printf("  %s %s\n", label(pad("Estimated size:", 18, false)), size)

	tw.printf("\n%s\n", label("Duration distribution"))
	for _, band := range video.DurationBands {
		tw.printf("  %s %d\n", pad(band.Description()+":", 20, false), s.ByBand[band])
	}

	tw.printf("\n%s\n", label("Resolution distribution"))
	for _, b := range video.Buckets {
		if n := s.ByResolution[b]; n > 0 {
			tw.printf("  %s %d\n", pad(b.String()+":", 20, false), n)
		}
	}

	tw.printf("\n%s\n", label("Flags"))
	tw.printf("  %s %d\n", pad("Favorites:", 20, false), s.Favorites)
	tw.printf("  %s %d\n", pad("Hidden:", 20, false), s.Hidden)
	tw.printf("  %s %d\n", pad("Trashed:", 20, false), s.Trashed)
}

func sizeText(mb *float64) string {
	if mb == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *mb)
}

func pad(s string, width int, right bool) string {
	if right {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}
