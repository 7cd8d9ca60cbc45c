package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// LibraryBundleExt is the extension of a Photos library package
	LibraryBundleExt = ".photoslibrary"
	// catalogRelPath is where the catalog lives inside a library bundle
	catalogRelPath = "database/Photos.sqlite"
)

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ResolveLibraryPath finds the catalog database for a library path.
// A directory is treated as a library bundle; any other file is returned as is.
func ResolveLibraryPath(path string) (string, error) {
	path = ExpandHome(path)

	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("library not found at %s. %s", path, getLibraryHint())
	}
	if !fi.IsDir() {
		return path, nil
	}

	dbPath := filepath.Join(path, filepath.FromSlash(catalogRelPath))
	if _, err := os.Stat(dbPath); err != nil {
		return "", fmt.Errorf("no %s inside %s. %s", catalogRelPath, path, getLibraryHint())
	}
	return dbPath, nil
}

// getLibraryHint returns platform-specific instructions for locating a library
func getLibraryHint() string {
	switch runtime.GOOS {
	case "darwin":
		return "Pass the path to a " + LibraryBundleExt + " bundle, e.g. ~/Pictures/Photos Library" + LibraryBundleExt
	default:
		return "Copy a " + LibraryBundleExt + " bundle or its " + catalogRelPath + " from a Mac and pass its path"
	}
}
