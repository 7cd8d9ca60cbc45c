package types

import (
	"io"
	"os"

	"github.com/lepinkainen/videoreport/config"
)

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext holds application-wide context information passed to commands
type AppContext struct {
	Version string
	Config  *config.Config

	// Stdout and Stderr default to the process streams when nil
	Stdout io.Writer
	Stderr io.Writer
}

// Out returns the writer for report output
func (c *AppContext) Out() io.Writer {
	if c == nil || c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

// ErrOut returns the writer for warnings and progress
func (c *AppContext) ErrOut() io.Writer {
	if c == nil || c.Stderr == nil {
		return os.Stderr
	}
	return c.Stderr
}

// VersionString returns the build version, or DefaultVersion for a nil context
func (c *AppContext) VersionString() string {
	if c == nil || c.Version == "" {
		return DefaultVersion
	}
	return c.Version
}
