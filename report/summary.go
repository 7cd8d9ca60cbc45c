package report

import (
	"math"

	"github.com/lepinkainen/videoreport/video"
)

// Summary aggregates a set of rows for the table footer and grouped JSON
type Summary struct {
	Count           int
	TotalDuration   float64
	TotalSizeMB     float64
	ByBand          map[video.DurationBand]int
	ByResolution    map[video.ResolutionBucket]int
	Favorites       int
	Hidden          int
	Trashed         int
	SizeUnavailable int // rows without an estimate
}

// Summarize aggregates rows
func Summarize(rows []Row) Summary {
	s := Summary{
		ByBand:       make(map[video.DurationBand]int),
		ByResolution: make(map[video.ResolutionBucket]int),
	}
	for _, r := range rows {
		s.Count++
		s.TotalDuration += r.DurationSeconds
		s.ByBand[video.DurationBandFor(r.DurationSeconds)]++
		s.ByResolution[r.Resolution]++
		if r.EstimatedSizeMB != nil {
			s.TotalSizeMB += *r.EstimatedSizeMB
		} else {
			s.SizeUnavailable++
		}
		if r.Favorite {
			s.Favorites++
		}
		if r.Hidden {
			s.Hidden++
		}
		if r.Trashed {
			s.Trashed++
		}
	}
	s.TotalSizeMB = round1(s.TotalSizeMB)
	return s
}

// AverageDuration returns the mean duration, 0 for an empty summary
func (s Summary) AverageDuration() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.TotalDuration / float64(s.Count)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
