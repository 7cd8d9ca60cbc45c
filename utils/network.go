package utils

import (
	"path/filepath"
	"strings"
)

// Common network mount roots on different platforms
var networkPrefixes = []string{
	"/mnt/",     // Linux NFS/SMB mounts
	"/media/",   // Linux removable/network media
	"/Volumes/", // macOS network volumes
}

// Path segments that usually name a network filesystem mount
var networkIndicators = []string{"nfs", "cifs", "smb", "webdav", "ftp", "sftp"}

// NetworkLocation reports whether a path looks network-mounted and the marker
// that gave it away. SQLite over network filesystems is slow and its locking
// is unreliable, so callers warn about it.
func NetworkLocation(filePath string) (string, bool) {
	// UNC paths must be checked before filepath.Abs rewrites them
	if strings.HasPrefix(filePath, "//") || strings.HasPrefix(filePath, `\\`) {
		return "UNC path", true
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", false
	}

	for _, prefix := range networkPrefixes {
		if strings.HasPrefix(absPath, prefix) {
			return prefix, true
		}
	}

	for _, segment := range strings.Split(filepath.ToSlash(strings.ToLower(absPath)), "/") {
		for _, indicator := range networkIndicators {
			if strings.HasPrefix(segment, indicator) {
				return indicator, true
			}
		}
	}

	return "", false
}
