package catalog

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lepinkainen/videoreport/video"
)

// Raw offsets for midnight UTC on a few reference dates
const (
	raw20200103 = 599702400
	raw20200104 = 599788800
	raw20210101 = 631152000
	raw20220101 = 662688000
)

const assetSchema = `CREATE TABLE ZASSET (
	Z_PK INTEGER PRIMARY KEY,
	ZKIND INTEGER,
	ZDURATION FLOAT,
	ZFILENAME VARCHAR,
	ZDATECREATED TIMESTAMP,
	ZWIDTH INTEGER,
	ZHEIGHT INTEGER,
	ZFAVORITE INTEGER,
	ZHIDDEN INTEGER,
	ZTRASHEDSTATE INTEGER
)`

const attributesSchema = `CREATE TABLE ZADDITIONALASSETATTRIBUTES (
	Z_PK INTEGER PRIMARY KEY,
	ZASSET INTEGER,
	ZORIGINALFILENAME VARCHAR
)`

type fixtureAsset struct {
	pk       int64
	kind     int
	duration float64
	filename string
	created  any
	width    any
	height   any
	favorite int
	hidden   int
	trashed  int
	original string
}

var fixtureAssets = []fixtureAsset{
	{pk: 1, kind: kindVideo, duration: 7221, filename: "IMG_0001.MOV", created: raw20200103, width: 1920, height: 1080, favorite: 1},
	{pk: 2, kind: kindVideo, duration: 45, filename: "IMG_0002.MOV", created: raw20200104, width: 640, height: 480, hidden: 1},
	{pk: 3, kind: kindVideo, duration: 900, filename: "IMG_0003.MOV"},
	{pk: 4, kind: kindVideo, duration: 600, filename: "4K_clip.mov", created: raw20210101, width: 3840, height: 2160, trashed: 1},
	{pk: 5, kind: kindVideo, duration: 301, filename: "drone*shot?.mov", created: raw20220101, width: 3840, height: 2160},
	{pk: 6, kind: kindVideo, duration: 0, filename: "zero.mov", created: raw20220101, width: 1280, height: 720},
	{pk: 7, kind: kindPhoto, duration: 0, filename: "IMG_0007.HEIC", created: raw20220101, width: 4032, height: 3024, favorite: 1},
	{pk: 8, kind: kindVideo, duration: 120, filename: "ABCD1234.MOV", created: raw20200103 + 3600, width: 1280, height: 720, original: "Birthday Party.mov"},
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	return db
}

func insertAssets(t *testing.T, db *sql.DB, assets []fixtureAsset, withAttributes bool) {
	t.Helper()
	for _, a := range assets {
		_, err := db.Exec(`INSERT INTO ZASSET (Z_PK, ZKIND, ZDURATION, ZFILENAME, ZDATECREATED, ZWIDTH, ZHEIGHT, ZFAVORITE, ZHIDDEN, ZTRASHEDSTATE)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.pk, a.kind, a.duration, a.filename, a.created, a.width, a.height, a.favorite, a.hidden, a.trashed)
		if err != nil {
			t.Fatalf("Failed to insert asset %d: %v", a.pk, err)
		}
		if withAttributes && a.original != "" {
			if _, err := db.Exec(`INSERT INTO ZADDITIONALASSETATTRIBUTES (ZASSET, ZORIGINALFILENAME) VALUES (?, ?)`, a.pk, a.original); err != nil {
				t.Fatalf("Failed to insert attributes for %d: %v", a.pk, err)
			}
		}
	}
}

func setupTestLibrary(t *testing.T) (*Library, func()) {
	t.Helper()
	db := newTestDB(t)
	for _, stmt := range []string{assetSchema, attributesSchema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			t.Fatalf("Failed to create schema: %v", err)
		}
	}
	insertAssets(t, db, fixtureAssets, true)

	lib, err := NewLibrary(context.Background(), db)
	if err != nil {
		db.Close()
		t.Fatalf("Failed to create library: %v", err)
	}
	return lib, func() { lib.Close() }
}

func f64(v float64) *float64 { return &v }

func assetIDs(records []video.AssetRecord) []int64 {
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.AssetID
	}
	return ids
}

func assertIDs(t *testing.T, records []video.AssetRecord, want ...int64) {
	t.Helper()
	got := assetIDs(records)
	if len(got) != len(want) {
		t.Fatalf("Expected assets %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected assets %v, got %v", want, got)
		}
	}
}

func TestAssets_DefaultCriteria(t *testing.T) {
	lib, cleanup := setupTestLibrary(t)
	defer cleanup()

	records, err := lib.Assets(context.Background(), video.FilterCriteria{Limit: 100})
	if err != nil {
		t.Fatalf("Assets() returned error: %v", err)
	}

	// zero-duration videos and photos are excluded, longest first
	assertIDs(t, records, 1, 3, 4, 5, 8, 2)

	first := records[0]
	if first.DurationSeconds != 7221 || first.Filename != "IMG_0001.MOV" {
		t.Errorf("Unexpected first record: %+v", first)
	}
	if first.DateCreatedRaw == nil || *first.DateCreatedRaw != raw20200103 {
		t.Errorf("Expected raw date %d, got %v", raw20200103, first.DateCreatedRaw)
	}
	if first.Width == nil || *first.Width != 1920 || first.Height == nil || *first.Height != 1080 {
		t.Errorf("Unexpected dimensions: %v x %v", first.Width, first.Height)
	}
	if !first.Favorite || first.Hidden || first.Trashed {
		t.Errorf("Unexpected flags: %+v", first)
	}

	noMeta := records[1]
	if noMeta.DateCreatedRaw != nil || noMeta.Width != nil || noMeta.Height != nil {
		t.Errorf("Expected missing metadata to stay nil: %+v", noMeta)
	}
}

func TestAssets_MinDurationAndResolution(t *testing.T) {
	lib, cleanup := setupTestLibrary(t)
	defer cleanup()

	res := video.Resolution4K
	records, err := lib.Assets(context.Background(), video.FilterCriteria{
		MinDuration: f64(300),
		Resolution:  &res,
		Limit:       100,
	})
	if err != nil {
		t.Fatalf("Assets() returned error: %v", err)
	}

	assertIDs(t, records, 4, 5)
	for _, r := range records {
		if r.DurationSeconds < 300 {
			t.Errorf("Asset %d shorter than minimum: %v", r.AssetID, r.DurationSeconds)
		}
		if r.Resolution() != video.Resolution4K {
			t.Errorf("Asset %d is %s, want 4K", r.AssetID, r.Resolution())
		}
	}
}

func TestAssets_ZeroMinDurationIncludesZero(t *testing.T) {
	lib, cleanup := setupTestLibrary(t)
	defer cleanup()

	records, err := lib.Assets(context.Background(), video.FilterCriteria{MinDuration: f64(0), MaxDuration: f64(0)})
	if err != nil {
		t.Fatalf("Assets() returned error: %v", err)
	}
	assertIDs(t, records, 6)
}

func TestAssets_DurationRange(t *testing.T) {
	lib, cleanup := setupTestLibrary(t)
	defer cleanup()

	records, err := lib.Assets(context.Background(), video.FilterCriteria{MinDuration: f64(120), MaxDuration: f64(600)})
	if err != nil {
		t.Fatalf("Assets() returned error: %v", err)
	}
	assertIDs(t, records, 4, 5, 8)
}

func TestAssets_DateRange(t *testing.T) {
	lib, cleanup := setupTestLibrary(t)
	defer cleanup()

	from := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	records, err := lib.Assets(context.Background(), video.FilterCriteria{DateFrom: &from, DateBefore: &before})
	if err != nil {
		t.Fatalf("Assets() returned error: %v", err)
	}
	assertIDs(t, records, 4)
}

// newFlatLibrary builds a library holding only the given assets, without the attributes table
func newFlatLibrary(t *testing.T, assets []fixtureAsset) *Library {
	t.Helper()
	db := newTestDB(t)
	if _, err := db.Exec(assetSchema); err != nil {
		db.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}
	insertAssets(t, db, assets, false)
	lib, err := NewLibrary(context.Background(), db)
	if err != nil {
		db.Close()
		t.Fatalf("Failed to create library: %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	return lib
}

func TestAssets_WholeSecondDates(t *testing.T) {
	// TIMESTAMP columns store whole seconds as integers whatever type was inserted
	lib := newFlatLibrary(t, []fixtureAsset{
		{pk: 1, kind: kindVideo, duration: 30, filename: "float.mov", created: float64(raw20200103), width: 640, height: 480},
		{pk: 2, kind: kindVideo, duration: 20, filename: "int.mov", created: int64(raw20200104), width: 640, height: 480},
		{pk: 3, kind: kindVideo, duration: 10, filename: "fraction.mov", created: float64(raw20200103) + 0.25, width: 640, height: 480},
	})

	records, err := lib.Assets(context.Background(), video.FilterCriteria{})
	if err != nil {
		t.Fatalf("Assets() returned error: %v", err)
	}
	assertIDs(t, records, 1, 2, 3)

	want := []float64{raw20200103, raw20200104, raw20200103 + 0.25}
	for i, r := range records {
		if r.DateCreatedRaw == nil || *r.DateCreatedRaw != want[i] {
			t.Errorf("Asset %d: expected raw date %v, got %v", r.AssetID, want[i], r.DateCreatedRaw)
		}
	}
	created, err := video.ToCalendar(records[0].DateCreatedRaw)
	if err != nil || created == nil || !created.Equal(time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected 2020-01-03 00:00:00, got %v (err %v)", created, err)
	}
}

func TestAssets_DateUpperBoundCoversLastDay(t *testing.T) {
	lib := newFlatLibrary(t, []fixtureAsset{
		{pk: 1, kind: kindVideo, duration: 30, filename: "late.mov", created: float64(raw20200104) - 0.6},
		{pk: 2, kind: kindVideo, duration: 20, filename: "midnight.mov", created: raw20200104},
	})

	before, err := video.ParseDateUpperBound("2020-01-03")
	if err != nil {
		t.Fatalf("ParseDateUpperBound() returned error: %v", err)
	}
	records, err := lib.Assets(context.Background(), video.FilterCriteria{DateBefore: &before})
	if err != nil {
		t.Fatalf("Assets() returned error: %v", err)
	}
	assertIDs(t, records, 1)
}

func TestAssets_Search(t *testing.T) {
	lib, cleanup := setupTestLibrary(t)
	defer cleanup()

	tests := []struct {
		name string
		term string
		want []int64
	}{
		{"substring", "IMG_000", []int64{1, 3, 2}},
		{"case sensitive", "img", nil},
		{"literal star", "*", []int64{5}},
		{"literal question mark", "shot?", []int64{5}},
		{"question mark needs a match", "clip?", nil},
		{"bracket", "[", nil},
		{"original filename preferred", "Birthday", []int64{8}},
		{"internal filename hidden", "ABCD", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := lib.Assets(context.Background(), video.FilterCriteria{SearchTerm: tt.term})
			if err != nil {
				t.Fatalf("Assets() returned error: %v", err)
			}
			assertIDs(t, records, tt.want...)
		})
	}
}

func TestAssets_OriginalFilename(t *testing.T) {
	lib, cleanup := setupTestLibrary(t)
	defer cleanup()

	records, err := lib.Assets(context.Background(), video.FilterCriteria{SearchTerm: "Party"})
	if err != nil {
		t.Fatalf("Assets() returned error: %v", err)
	}
	if len(records) != 1 || records[0].Filename != "Birthday Party.mov" {
		t.Fatalf("Expected original filename, got %+v", records)
	}
}

func TestAssets_WithoutAttributesTable(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.Exec(assetSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	insertAssets(t, db, fixtureAssets, false)

	lib, err := NewLibrary(context.Background(), db)
	if err != nil {
		t.Fatalf("NewLibrary() returned error: %v", err)
	}
	defer lib.Close()

	records, err := lib.Assets(context.Background(), video.FilterCriteria{SearchTerm: "ABCD"})
	if err != nil {
		t.Fatalf("Assets() returned error: %v", err)
	}
	if len(records) != 1 || records[0].Filename != "ABCD1234.MOV" {
		t.Fatalf("Expected internal filename, got %+v", records)
	}
}

func TestAssets_Sorting(t *testing.T) {
	lib, cleanup := setupTestLibrary(t)
	defer cleanup()

	tests := []struct {
		sort video.SortField
		want []int64
	}{
		{video.SortByDuration, []int64{1, 3, 4, 5, 8, 2}},
		{video.SortByFilename, []int64{4, 8, 1, 2, 3, 5}},
		// NULL dates and dimensions sort last in descending order
		{video.SortByDate, []int64{5, 4, 2, 8, 1, 3}},
		{video.SortBySize, []int64{4, 5, 1, 8, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			records, err := lib.Assets(context.Background(), video.FilterCriteria{SortBy: tt.sort})
			if err != nil {
				t.Fatalf("Assets() returned error: %v", err)
			}
			assertIDs(t, records, tt.want...)
		})
	}
}

func TestAssets_TiesBrokenByAssetID(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.Exec(assetSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	insertAssets(t, db, []fixtureAsset{
		{pk: 30, kind: kindVideo, duration: 60, filename: "c.mov"},
		{pk: 10, kind: kindVideo, duration: 60, filename: "a.mov"},
		{pk: 20, kind: kindVideo, duration: 60, filename: "b.mov"},
	}, false)

	lib, err := NewLibrary(context.Background(), db)
	if err != nil {
		t.Fatalf("NewLibrary() returned error: %v", err)
	}
	defer lib.Close()

	for i := 0; i < 3; i++ {
		records, err := lib.Assets(context.Background(), video.FilterCriteria{})
		if err != nil {
			t.Fatalf("Assets() returned error: %v", err)
		}
		assertIDs(t, records, 10, 20, 30)
	}
}

func TestAssets_Limit(t *testing.T) {
	lib, cleanup := setupTestLibrary(t)
	defer cleanup()

	records, err := lib.Assets(context.Background(), video.FilterCriteria{Limit: 2})
	if err != nil {
		t.Fatalf("Assets() returned error: %v", err)
	}
	assertIDs(t, records, 1, 3)
}

func TestAssets_InvalidCriteria(t *testing.T) {
	lib, cleanup := setupTestLibrary(t)
	defer cleanup()

	_, err := lib.Assets(context.Background(), video.FilterCriteria{MinDuration: f64(600), MaxDuration: f64(60)})
	if err == nil {
		t.Fatal("Expected error for min > max")
	}
	if IsKind(err, KindQuery) {
		t.Error("Rejected criteria should not be reported as a query failure")
	}
}

func TestQueryBuilder_Build(t *testing.T) {
	res := video.Resolution4K
	q, err := NewQueryBuilder(true).Build(video.FilterCriteria{
		MinDuration: f64(300),
		Resolution:  &res,
		SearchTerm:  "a*b",
		SortBy:      video.SortByDate,
		Limit:       25,
	})
	if err != nil {
		t.Fatalf("Build() returned error: %v", err)
	}

	want := []any{kindVideo, 300.0, int64(3000001), int64(9000000), "*a[*]b*", 25}
	if len(q.Args) != len(want) {
		t.Fatalf("Expected args %v, got %v", want, q.Args)
	}
	for i := range want {
		if q.Args[i] != want[i] {
			t.Errorf("Arg %d = %#v, want %#v", i, q.Args[i], want[i])
		}
	}

	for _, fragment := range []string{
		"a.ZKIND = ?",
		"a.ZDURATION >= ?",
		"(a.ZWIDTH * a.ZHEIGHT) BETWEEN ? AND ?",
		"GLOB ?",
		"LEFT JOIN ZADDITIONALASSETATTRIBUTES",
		"ORDER BY a.ZDATECREATED DESC, a.Z_PK ASC",
		"LIMIT ?",
	} {
		if !strings.Contains(q.SQL, fragment) {
			t.Errorf("Expected SQL to contain %q:\n%s", fragment, q.SQL)
		}
	}
}

func TestQueryBuilder_Defaults(t *testing.T) {
	q, err := NewQueryBuilder(false).Build(video.FilterCriteria{})
	if err != nil {
		t.Fatalf("Build() returned error: %v", err)
	}
	if !strings.Contains(q.SQL, "a.ZDURATION > 0") {
		t.Errorf("Expected positive duration filter:\n%s", q.SQL)
	}
	if strings.Contains(q.SQL, "LIMIT") {
		t.Errorf("Zero limit should not add a LIMIT clause:\n%s", q.SQL)
	}
	if strings.Contains(q.SQL, "JOIN") {
		t.Errorf("Builder without original names should not join:\n%s", q.SQL)
	}
	if len(q.Args) != 1 {
		t.Errorf("Expected only the kind argument, got %v", q.Args)
	}
}

func TestQueryBuilder_UnboundedResolution(t *testing.T) {
	res := video.Resolution8K
	q, err := NewQueryBuilder(false).Build(video.FilterCriteria{Resolution: &res})
	if err != nil {
		t.Fatalf("Build() returned error: %v", err)
	}
	if !strings.Contains(q.SQL, "(a.ZWIDTH * a.ZHEIGHT) >= ?") {
		t.Errorf("Expected open-ended pixel filter:\n%s", q.SQL)
	}
}

func TestQueryBuilder_UnknownResolutionRejected(t *testing.T) {
	res := video.ResolutionUnknown
	if _, err := NewQueryBuilder(false).Build(video.FilterCriteria{Resolution: &res}); err == nil {
		t.Error("Expected error when filtering on Unknown resolution")
	}
}

func TestWhereBuilder_Empty(t *testing.T) {
	wb := &whereBuilder{}
	where, args := wb.build()
	if where != "1=1" || args != nil {
		t.Errorf("Expected 1=1 with no args, got %q %v", where, args)
	}
}

func TestStats(t *testing.T) {
	lib, cleanup := setupTestLibrary(t)
	defer cleanup()

	s := lib.Stats(context.Background())

	checks := []struct {
		name string
		got  *int64
		want int64
	}{
		{"total videos", s.TotalVideos, 7},
		{"videos with duration", s.VideosWithDuration, 6},
		{"total photos", s.TotalPhotos, 1},
		{"favorite videos", s.FavoriteVideos, 1},
		{"hidden videos", s.HiddenVideos, 1},
		{"trashed videos", s.TrashedVideos, 1},
	}
	for _, c := range checks {
		if c.got == nil {
			t.Errorf("%s: expected %d, got nil", c.name, c.want)
			continue
		}
		if *c.got != c.want {
			t.Errorf("%s: expected %d, got %d", c.name, c.want, *c.got)
		}
	}

	if s.TotalDurationSeconds == nil || *s.TotalDurationSeconds != 9187 {
		t.Errorf("Expected total duration 9187, got %v", s.TotalDurationSeconds)
	}

	wantHist := map[video.ResolutionBucket]int64{
		video.ResolutionFullHD:  1,
		video.ResolutionSD:      1,
		video.ResolutionHD:      2,
		video.Resolution4K:      2,
		video.ResolutionUnknown: 1,
	}
	for b, n := range wantHist {
		if s.VideosByResolution[b] != n {
			t.Errorf("%s: expected %d, got %d", b, n, s.VideosByResolution[b])
		}
	}
}

func TestStats_FlagsAgreeWithRecords(t *testing.T) {
	lib := newFlatLibrary(t, []fixtureAsset{
		{pk: 1, kind: kindVideo, duration: 30, filename: "deleted.mov", trashed: 2},
		{pk: 2, kind: kindVideo, duration: 20, filename: "starred.mov", favorite: 2, hidden: 3},
		{pk: 3, kind: kindVideo, duration: 10, filename: "plain.mov"},
	})
	ctx := context.Background()

	records, err := lib.Assets(ctx, video.FilterCriteria{})
	if err != nil {
		t.Fatalf("Assets() returned error: %v", err)
	}
	var favorite, hidden, trashed int64
	for _, r := range records {
		if r.Favorite {
			favorite++
		}
		if r.Hidden {
			hidden++
		}
		if r.Trashed {
			trashed++
		}
	}

	s := lib.Stats(ctx)
	checks := []struct {
		name    string
		got     *int64
		records int64
	}{
		{"favorite videos", s.FavoriteVideos, favorite},
		{"hidden videos", s.HiddenVideos, hidden},
		{"trashed videos", s.TrashedVideos, trashed},
	}
	for _, c := range checks {
		if c.records != 1 {
			t.Errorf("%s: expected 1 flagged record, got %d", c.name, c.records)
		}
		if c.got == nil || *c.got != c.records {
			t.Errorf("%s: statistics %v disagree with %d flagged records", c.name, c.got, c.records)
		}
	}
}

func TestStats_EmptyLibrary(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.Exec(assetSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	lib, err := NewLibrary(context.Background(), db)
	if err != nil {
		t.Fatalf("NewLibrary() returned error: %v", err)
	}
	defer lib.Close()

	s := lib.Stats(context.Background())
	if s.TotalVideos == nil || *s.TotalVideos != 0 {
		t.Errorf("Expected 0 videos, got %v", s.TotalVideos)
	}
	if s.TotalDurationSeconds == nil || *s.TotalDurationSeconds != 0 {
		t.Errorf("Expected 0 duration, got %v", s.TotalDurationSeconds)
	}
	if s.VideosByResolution == nil || len(s.VideosByResolution) != 0 {
		t.Errorf("Expected empty histogram, got %v", s.VideosByResolution)
	}
}

// A catalog missing some columns still yields every statistic that does not need them,
// while the record query itself fails as a query error
func TestStats_IndependentFailures(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`CREATE TABLE ZASSET (Z_PK INTEGER PRIMARY KEY, ZKIND INTEGER, ZDURATION FLOAT,
		ZFILENAME VARCHAR, ZDATECREATED TIMESTAMP, ZWIDTH INTEGER, ZHEIGHT INTEGER)`)
	if err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO ZASSET (Z_PK, ZKIND, ZDURATION, ZFILENAME, ZWIDTH, ZHEIGHT) VALUES (1, 1, 30, 'a.mov', 640, 480)`); err != nil {
		t.Fatalf("Failed to insert asset: %v", err)
	}

	lib, err := NewLibrary(context.Background(), db)
	if err != nil {
		t.Fatalf("NewLibrary() returned error: %v", err)
	}
	defer lib.Close()

	_, err = lib.Assets(context.Background(), video.FilterCriteria{})
	if !IsKind(err, KindQuery) {
		t.Fatalf("Expected query error, got %v", err)
	}
	if IsFatal(err) {
		t.Error("Query errors should not be fatal")
	}

	s := lib.Stats(context.Background())
	if s.TotalVideos == nil || *s.TotalVideos != 1 {
		t.Errorf("Expected 1 video, got %v", s.TotalVideos)
	}
	if s.TotalDurationSeconds == nil || *s.TotalDurationSeconds != 30 {
		t.Errorf("Expected duration 30, got %v", s.TotalDurationSeconds)
	}
	if s.VideosByResolution[video.ResolutionSD] != 1 {
		t.Errorf("Expected 1 SD video, got %v", s.VideosByResolution)
	}
	if s.FavoriteVideos != nil || s.HiddenVideos != nil || s.TrashedVideos != nil {
		t.Errorf("Statistics over missing columns should be unavailable: %v %v %v",
			s.FavoriteVideos, s.HiddenVideos, s.TrashedVideos)
	}
}

func TestNewLibrary_NotPhotosDatabase(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	if _, err := db.Exec("CREATE TABLE other (id INTEGER)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	if _, err := NewLibrary(context.Background(), db); err == nil {
		t.Fatal("Expected error for database without ZASSET")
	}
}

func createLibraryFile(t *testing.T, path string) {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()
	for _, stmt := range []string{assetSchema, attributesSchema} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to create schema: %v", err)
		}
	}
	insertAssets(t, db, fixtureAssets, true)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Photos Library.sqlite")
	createLibraryFile(t, path)

	lib, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	defer lib.Close()

	if lib.Path() != path {
		t.Errorf("Expected path %s, got %s", path, lib.Path())
	}

	records, err := lib.Assets(context.Background(), video.FilterCriteria{Limit: 1})
	if err != nil {
		t.Fatalf("Assets() returned error: %v", err)
	}
	assertIDs(t, records, 1)

	if _, err := lib.db.Exec("DELETE FROM ZASSET"); err == nil {
		t.Error("Expected write to a read-only library to fail")
	}
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()
	notDB := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notDB, []byte("this is not a database, just some text padding it out"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.sqlite")},
		{"directory", dir},
		{"not a database", notDB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := Open(context.Background(), tt.path)
			if err == nil {
				lib.Close()
				t.Fatal("Expected error")
			}
			if !IsKind(err, KindConnection) {
				t.Errorf("Expected connection error, got %v", err)
			}
			if !IsFatal(err) {
				t.Error("Connection errors should be fatal")
			}
		})
	}
}

func TestReadOnlyDSN(t *testing.T) {
	got := readOnlyDSN("/tmp/a?b#c%d.sqlite")
	want := "file:/tmp/a%3fb%23c%25d.sqlite?_query_only=true&mode=ro"
	if got != want {
		t.Errorf("readOnlyDSN() = %q, want %q", got, want)
	}
}

func TestClose_NilSafe(t *testing.T) {
	var lib *Library
	if err := lib.Close(); err != nil {
		t.Errorf("Close() on nil library returned error: %v", err)
	}
}

func TestErrors(t *testing.T) {
	base := errors.New("disk full")
	err := NewError(KindOutputWrite, "write report", base)

	if err.Error() != "write report failed: disk full" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("Expected error to unwrap to its cause")
	}
	if !IsKind(err, KindOutputWrite) || IsKind(err, KindQuery) {
		t.Error("IsKind() mismatch")
	}
	if !IsFatal(err) {
		t.Error("Output write errors should be fatal")
	}
	if IsFatal(NewError(KindDateConversion, "convert date", base)) {
		t.Error("Date conversion errors should not be fatal")
	}
	if !IsFatal(base) {
		t.Error("Plain errors should be treated as fatal")
	}
	if IsFatal(nil) {
		t.Error("nil should not be fatal")
	}
	if KindDateConversion.String() != "date conversion" {
		t.Errorf("Unexpected kind name %q", KindDateConversion.String())
	}
}
