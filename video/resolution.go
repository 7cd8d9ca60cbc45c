package video

import (
	"fmt"
	"math"
	"strings"
)

// ResolutionBucket is a coarse classification of a video's pixel count
type ResolutionBucket int

const (
	ResolutionUnknown ResolutionBucket = iota
	ResolutionSD
	ResolutionHD
	ResolutionFullHD
	Resolution4K
	Resolution8K
)

// Buckets lists the classified buckets in ascending order, Unknown last
var Buckets = []ResolutionBucket{
	ResolutionSD, ResolutionHD, ResolutionFullHD, Resolution4K, Resolution8K, ResolutionUnknown,
}

type bucketSpec struct {
	label       string
	minPixels   int64 // inclusive
	maxPixels   int64 // inclusive, 0 = unbounded
	bitrateMbps float64
}

// bucketTable is the single source for classification, query bounds and bitrate lookup.
// Bitrates approximate typical camera-phone H.264/HEVC output.
var bucketTable = map[ResolutionBucket]bucketSpec{
	ResolutionSD:     {label: "SD", minPixels: 0, maxPixels: 500_000, bitrateMbps: 2.5},
	ResolutionHD:     {label: "HD", minPixels: 500_001, maxPixels: 1_500_000, bitrateMbps: 5},
	ResolutionFullHD: {label: "Full HD", minPixels: 1_500_001, maxPixels: 3_000_000, bitrateMbps: 10},
	Resolution4K:     {label: "4K", minPixels: 3_000_001, maxPixels: 9_000_000, bitrateMbps: 40},
	Resolution8K:     {label: "8K+", minPixels: 9_000_001, maxPixels: 0, bitrateMbps: 80},
}

// String returns the display label of the bucket
func (b ResolutionBucket) String() string {
	if entry, ok := bucketTable[b]; ok {
		return entry.label
	}
	return "Unknown"
}

// PixelRange returns the inclusive pixel-count bounds of the bucket.
// max is 0 for the open-ended 8K+ bucket; ok is false for Unknown.
func (b ResolutionBucket) PixelRange() (lo, hi int64, ok bool) {
	entry, ok := bucketTable[b]
	if !ok {
		return 0, 0, false
	}
	return entry.minPixels, entry.maxPixels, true
}

// BitrateMbps returns the estimated bitrate for the bucket, 0 for Unknown
func (b ResolutionBucket) BitrateMbps() float64 {
	return bucketTable[b].bitrateMbps
}

// ParseResolution maps the CLI resolution names (sd, hd, fullhd, 4k, 8k) to a bucket
func ParseResolution(s string) (ResolutionBucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sd":
		return ResolutionSD, nil
	case "hd":
		return ResolutionHD, nil
	case "fullhd", "full hd", "1080p":
		return ResolutionFullHD, nil
	case "4k":
		return Resolution4K, nil
	case "8k", "8k+":
		return Resolution8K, nil
	default:
		return ResolutionUnknown, fmt.Errorf("invalid resolution %q (expected sd, hd, fullhd, 4k or 8k)", s)
	}
}

// Classify buckets a width/height pair. Missing or non-positive dimensions are Unknown.
func Classify(width, height *int) ResolutionBucket {
	if width == nil || height == nil || *width <= 0 || *height <= 0 {
		return ResolutionUnknown
	}
	return ClassifyPixels(int64(*width) * int64(*height))
}

// ClassifyPixels buckets a raw pixel count
func ClassifyPixels(pixels int64) ResolutionBucket {
	for _, b := range Buckets[:len(Buckets)-1] {
		entry := bucketTable[b]
		if pixels >= entry.minPixels && (entry.maxPixels == 0 || pixels <= entry.maxPixels) {
			return b
		}
	}
	return ResolutionUnknown
}

// EstimateSizeMB approximates the encoded size in megabytes as duration × bitrate / 8,
// rounded to one decimal. It returns nil when the estimate has no basis.
func EstimateSizeMB(durationSeconds float64, width, height *int) *float64 {
	if durationSeconds <= 0 || width == nil || height == nil {
		return nil
	}
	bucket := Classify(width, height)
	if bucket == ResolutionUnknown {
		return nil
	}
	mb := math.Round(durationSeconds*bucket.BitrateMbps()/8*10) / 10
	return &mb
}
