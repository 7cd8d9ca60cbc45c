package video

import "sort"

// UnknownGroup is the key for records whose creation date is missing or invalid
const UnknownGroup = "Unknown"

// AssetGroup is one date bucket of a grouped report
type AssetGroup struct {
	Key           string
	Records       []AssetRecord
	TotalDuration float64
	TotalSizeMB   float64 // sum of non-nil estimates
}

// Count returns the number of records in the group
func (g AssetGroup) Count() int {
	return len(g.Records)
}

// GroupKey returns the bucket key for a raw date at the given granularity
func GroupKey(raw *float64, granularity Granularity) string {
	t, err := ToCalendar(raw)
	if err != nil || t == nil {
		return UnknownGroup
	}
	switch granularity {
	case GroupYear:
		return t.Format("2006")
	case GroupMonth:
		return t.Format("2006-01")
	default:
		return t.Format(DateLayout)
	}
}

// Group partitions records by creation date. Groups are ordered newest first with
// the Unknown group last; records keep their input order inside each group.
func Group(records []AssetRecord, granularity Granularity) []AssetGroup {
	index := make(map[string]int)
	var groups []AssetGroup

	for _, rec := range records {
		key := GroupKey(rec.DateCreatedRaw, granularity)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, AssetGroup{Key: key})
		}
		g := &groups[i]
		g.Records = append(g.Records, rec)
		g.TotalDuration += rec.DurationSeconds
		if size := rec.EstimatedSizeMB(); size != nil {
			g.TotalSizeMB += *size
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Key, groups[j].Key
		if a == UnknownGroup || b == UnknownGroup {
			return b == UnknownGroup && a != UnknownGroup
		}
		return a > b
	})
	return groups
}
