package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lepinkainen/videoreport/video"
)

// Assets runs the filtered video query. A build error means the criteria were
// rejected; query and scan failures are returned as KindQuery errors.
func (l *Library) Assets(ctx context.Context, c video.FilterCriteria) ([]video.AssetRecord, error) {
	q, err := NewQueryBuilder(l.hasOriginalNames).Build(c)
	if err != nil {
		return nil, err
	}

	rows, err := l.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, NewError(KindQuery, "query videos", err)
	}
	defer rows.Close()

	var records []video.AssetRecord
	for rows.Next() {
		rec, err := scanAsset(rows)
		if err != nil {
			return nil, NewError(KindQuery, "scan video", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, NewError(KindQuery, "query videos", err)
	}

	return records, nil
}

func scanAsset(rows *sql.Rows) (video.AssetRecord, error) {
	var (
		duration         sql.NullFloat64
		filename         sql.NullString
		created          sql.NullFloat64
		width, height    sql.NullInt64
		pk               int64
		favorite, hidden sql.NullInt64
		trashed          sql.NullInt64
	)
	if err := rows.Scan(&duration, &filename, &created, &width, &height, &pk, &favorite, &hidden, &trashed); err != nil {
		return video.AssetRecord{}, fmt.Errorf("failed to scan asset: %w", err)
	}

	rec := video.AssetRecord{
		DurationSeconds: duration.Float64,
		Filename:        filename.String,
		AssetID:         pk,
		Favorite:        intToBool(favorite),
		Hidden:          intToBool(hidden),
		Trashed:         intToBool(trashed),
	}
	if created.Valid {
		raw := created.Float64
		rec.DateCreatedRaw = &raw
	}
	if width.Valid {
		w := int(width.Int64)
		rec.Width = &w
	}
	if height.Valid {
		h := int(height.Int64)
		rec.Height = &h
	}
	return rec, nil
}

// intToBool treats any non-zero flag as set; ZTRASHEDSTATE is not strictly 0/1
func intToBool(v sql.NullInt64) bool {
	return v.Valid && v.Int64 != 0
}
