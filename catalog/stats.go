package catalog

import (
	"context"
	"database/sql"

	"github.com/lepinkainen/videoreport/logging"
	"github.com/lepinkainen/videoreport/video"
)

// LibraryStats holds library-wide aggregates. A nil field means the aggregate
// could not be computed.
type LibraryStats struct {
	TotalVideos          *int64
	VideosWithDuration   *int64
	TotalPhotos          *int64
	TotalDurationSeconds *float64
	FavoriteVideos       *int64
	HiddenVideos         *int64
	TrashedVideos        *int64
	VideosByResolution   map[video.ResolutionBucket]int64
}

// Stats runs each aggregate as an independent query. Individual failures are
// logged and leave that statistic unset.
func (l *Library) Stats(ctx context.Context) LibraryStats {
	var s LibraryStats

	s.TotalVideos = l.countWhere(ctx, "total videos", "ZKIND = ?", kindVideo)
	s.VideosWithDuration = l.countWhere(ctx, "videos with duration", "ZKIND = ? AND ZDURATION > 0", kindVideo)
	s.TotalPhotos = l.countWhere(ctx, "total photos", "ZKIND = ?", kindPhoto)
	s.FavoriteVideos = l.countWhere(ctx, "favorite videos", "ZKIND = ? AND ZFAVORITE <> 0", kindVideo)
	s.HiddenVideos = l.countWhere(ctx, "hidden videos", "ZKIND = ? AND ZHIDDEN <> 0", kindVideo)
	s.TrashedVideos = l.countWhere(ctx, "trashed videos", "ZKIND = ? AND ZTRASHEDSTATE <> 0", kindVideo)

	var total float64
	err := l.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(ZDURATION), 0) FROM "+assetTable+" WHERE ZKIND = ?", kindVideo).Scan(&total)
	if err != nil {
		warnStat("total duration", err)
	} else {
		s.TotalDurationSeconds = &total
	}

	hist, err := l.resolutionHistogram(ctx)
	if err != nil {
		warnStat("resolution histogram", err)
	} else {
		s.VideosByResolution = hist
	}

	return s
}

func (l *Library) countWhere(ctx context.Context, name, where string, args ...any) *int64 {
	var n int64
	err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+assetTable+" WHERE "+where, args...).Scan(&n)
	if err != nil {
		warnStat(name, err)
		return nil
	}
	return &n
}

func (l *Library) resolutionHistogram(ctx context.Context) (map[video.ResolutionBucket]int64, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT ZWIDTH, ZHEIGHT, COUNT(*) FROM "+assetTable+" WHERE ZKIND = ? GROUP BY ZWIDTH, ZHEIGHT", kindVideo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hist := make(map[video.ResolutionBucket]int64)
	for rows.Next() {
		var w, h sql.NullInt64
		var n int64
		if err := rows.Scan(&w, &h, &n); err != nil {
			return nil, err
		}
		var wp, hp *int
		if w.Valid {
			v := int(w.Int64)
			wp = &v
		}
		if h.Valid {
			v := int(h.Int64)
			hp = &v
		}
		hist[video.Classify(wp, hp)] += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return hist, nil
}

func warnStat(name string, err error) {
	logging.Warn().Err(err).Str("statistic", name).Str("kind", KindQuery.String()).Msg("Statistic unavailable")
}
