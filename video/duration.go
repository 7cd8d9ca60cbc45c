package video

import "fmt"

// DurationBand buckets a video by length for summary histograms
type DurationBand string

const (
	BandShort  DurationBand = "Short"  // under a minute
	BandMedium DurationBand = "Medium" // 1 to 10 minutes inclusive
	BandLong   DurationBand = "Long"   // over 10 minutes
)

// DurationBands lists bands in display order
var DurationBands = []DurationBand{BandShort, BandMedium, BandLong}

// Description returns the band label with its boundaries
func (b DurationBand) Description() string {
	switch b {
	case BandShort:
		return "Short (<1 min)"
	case BandMedium:
		return "Medium (1-10 min)"
	default:
		return "Long (>10 min)"
	}
}

// DurationBandFor returns the band for a duration in seconds
func DurationBandFor(seconds float64) DurationBand {
	switch {
	case seconds < 60:
		return BandShort
	case seconds <= 600:
		return BandMedium
	default:
		return BandLong
	}
}

// FormatDuration renders seconds as H:MM:SS, dropping fractional seconds
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
