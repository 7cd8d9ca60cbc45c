package report

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/lepinkainen/videoreport/catalog"
	"github.com/lepinkainen/videoreport/ui"
	"github.com/lepinkainen/videoreport/video"
)

// WriteStats renders library-wide statistics. Missing values print as N/A.
func WriteStats(w io.Writer, s catalog.LibraryStats, opts TableOptions) error {
	tw := newTableWriter(w, opts)
	line := func(name, value string) {
		tw.printf("  %s %s\n", tw.style(ui.LabelStyle, pad(name+":", 24, false)), value)
	}

	tw.printf("%s\n", tw.style(ui.HeaderStyle, "Library statistics"))
	line("Total videos", countText(s.TotalVideos))
	line("Videos with duration", countText(s.VideosWithDuration))
	line("Total photos", countText(s.TotalPhotos))
	if s.TotalDurationSeconds != nil {
		line("Total video duration", fmt.Sprintf("%s (%.1f hours)",
			video.FormatDuration(*s.TotalDurationSeconds), *s.TotalDurationSeconds/3600))
	} else {
		line("Total video duration", "N/A")
	}
	line("Favorite videos", countText(s.FavoriteVideos))
	line("Hidden videos", countText(s.HiddenVideos))
	line("Trashed videos", countText(s.TrashedVideos))

	tw.printf("\n%s\n", tw.style(ui.LabelStyle, "Videos by resolution"))
	if s.VideosByResolution == nil {
		tw.printf("  N/A\n")
	} else {
		for _, b := range video.Buckets {
			tw.printf("  %s %d\n", pad(b.String()+":", 24, false), s.VideosByResolution[b])
		}
	}
	return tw.err
}

// statsJSON mirrors LibraryStats with null for unavailable values
type statsJSON struct {
	TotalVideos          *int64           `json:"total_videos"`
	VideosWithDuration   *int64           `json:"videos_with_duration"`
	TotalPhotos          *int64           `json:"total_photos"`
	TotalDurationSeconds *float64         `json:"total_duration_seconds"`
	FavoriteVideos       *int64           `json:"favorite_videos"`
	HiddenVideos         *int64           `json:"hidden_videos"`
	TrashedVideos        *int64           `json:"trashed_videos"`
	VideosByResolution   map[string]int64 `json:"videos_by_resolution"`
}

// WriteStatsJSON renders library-wide statistics as JSON
func WriteStatsJSON(w io.Writer, s catalog.LibraryStats) error {
	out := statsJSON{
		TotalVideos:          s.TotalVideos,
		VideosWithDuration:   s.VideosWithDuration,
		TotalPhotos:          s.TotalPhotos,
		TotalDurationSeconds: s.TotalDurationSeconds,
		FavoriteVideos:       s.FavoriteVideos,
		HiddenVideos:         s.HiddenVideos,
		TrashedVideos:        s.TrashedVideos,
	}
	if s.VideosByResolution != nil {
		out.VideosByResolution = make(map[string]int64, len(video.Buckets))
		for _, b := range video.Buckets {
			out.VideosByResolution[b.String()] = s.VideosByResolution[b]
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode statistics: %w", err)
	}
	return writeIndented(w, data)
}

func countText(v *int64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *v)
}
