package ytdlp

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
)

// ToolName is the downloader executable this package drives.
const ToolName = "yt-dlp"

// ToolNotFoundError reports that neither a managed nor a PATH-resolved
// executable is available. Distinct from spawn/IO failures so callers can
// surface a remediation hint instead of a generic error.
type ToolNotFoundError struct {
	Tool       string
	ManagedDir string
}

// Error formats the failure with an install hint.
func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf(
		"%s executable not found. Install it and make sure it is on PATH, or place the binary in %s.",
		e.Tool, e.ManagedDir,
	)
}

// Resolver locates external tool executables. Managed binaries take
// precedence over whatever is on the search path.
type Resolver struct {
	managedDir string
	lookPath   func(string) (string, error)
	stat       func(string) (os.FileInfo, error)
}

// NewResolver builds a resolver rooted at the managed binary directory.
func NewResolver(managedDir string) *Resolver {
	return &Resolver{
		managedDir: managedDir,
		lookPath:   exec.LookPath,
		stat:       os.Stat,
	}
}

// Resolve returns the executable path for tool, preferring the managed copy.
func (r *Resolver) Resolve(tool string) (string, error) {
	candidate := filepath.Join(r.managedDir, exeName(tool))
	if info, err := r.stat(candidate); err == nil && !info.IsDir() {
		return candidate, nil
	}

	if path, err := r.lookPath(tool); err == nil {
		return path, nil
	}

	return "", &ToolNotFoundError{Tool: tool, ManagedDir: r.managedDir}
}

// ManagedBinDir returns the per-user directory for managed tool binaries.
func ManagedBinDir(homeDir string) string {
	return filepath.Join(homeDir, ".youwee", "bin")
}

// exeName appends the platform executable suffix.
func exeName(tool string) string {
	if goruntime.GOOS == "windows" {
		return tool + ".exe"
	}
	return tool
}

// NewResolverForTests creates a resolver with injectable dependencies.
func NewResolverForTests(
	managedDir string,
	lookPath func(string) (string, error),
	stat func(string) (os.FileInfo, error),
) *Resolver {
	return &Resolver{
		managedDir: managedDir,
		lookPath:   lookPath,
		stat:       stat,
	}
}
