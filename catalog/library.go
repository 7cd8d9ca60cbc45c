// Package catalog reads video metadata from an Apple Photos library database.
//
// The catalog is opened read-only. A Library owns one connection for the
// lifetime of a command and must be closed by the caller.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const (
	assetTable      = "ZASSET"
	attributesTable = "ZADDITIONALASSETATTRIBUTES"
)

// Library is an open Photos catalog
type Library struct {
	db   *sql.DB
	path string

	// original filenames live in a side table that older catalogs do not have
	hasOriginalNames bool
}

// Open opens the catalog at path read-only and verifies that it is a SQLite database
func Open(ctx context.Context, path string) (*Library, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, NewError(KindConnection, "open library", err)
	}
	if fi.IsDir() {
		return nil, NewError(KindConnection, "open library", fmt.Errorf("%s is a directory", path))
	}

	db, err := sql.Open("sqlite3", readOnlyDSN(path))
	if err != nil {
		return nil, NewError(KindConnection, "open library", err)
	}
	// One connection per run; nothing here runs concurrently
	db.SetMaxOpenConns(1)

	lib, err := NewLibrary(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, NewError(KindConnection, "open library", err)
	}
	lib.path = path
	return lib, nil
}

// NewLibrary wraps an already opened database handle. The Library takes ownership of db.
func NewLibrary(ctx context.Context, db *sql.DB) (*Library, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	lib := &Library{db: db}
	// Reading sqlite_master fails fast on files that are not SQLite databases
	hasAssets, err := lib.tableExists(ctx, assetTable)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	if !hasAssets {
		return nil, fmt.Errorf("no %s table found, not a Photos library database", assetTable)
	}
	lib.hasOriginalNames, err = lib.tableExists(ctx, attributesTable)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return lib, nil
}

// Path returns the database file path, empty for wrapped handles
func (l *Library) Path() string {
	return l.path
}

// Close releases the connection. It is safe to call on a nil Library.
func (l *Library) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

func (l *Library) tableExists(ctx context.Context, name string) (bool, error) {
	var found string
	err := l.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// uriEscaper escapes the characters SQLite treats specially in a URI filename
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// readOnlyDSN builds a SQLite URI that never writes to the catalog
func readOnlyDSN(path string) string {
	q := url.Values{}
	q.Set("mode", "ro")
	q.Set("_query_only", "true")
	return "file:" + uriEscaper.Replace(path) + "?" + q.Encode()
}
