package diagnostics

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"youwee/internal/domain"
)

// Checker validates external tools and required filesystem paths.
type Checker struct {
	managedBinDir string
	lookPath      func(string) (string, error)
	stat          func(string) (os.FileInfo, error)
	mkdirAll      func(string, os.FileMode) error
	createTemp    func(string, string) (*os.File, error)
	remove        func(string) error
}

// NewChecker builds a checker using real OS dependencies. managedBinDir is
// the app-managed directory where a fixed yt-dlp binary may live; it is
// preferred over PATH when checking for the tool.
func NewChecker(managedBinDir string) *Checker {
	return &Checker{
		managedBinDir: managedBinDir,
		lookPath:      exec.LookPath,
		stat:          os.Stat,
		mkdirAll:      os.MkdirAll,
		createTemp:    os.CreateTemp,
		remove:        os.Remove,
	}
}

// Run executes all startup checks and returns a combined report.
func (c *Checker) Run(settings domain.Settings) domain.DiagnosticReport {
	items := []domain.DiagnosticItem{
		c.checkYtDlp(),
		c.checkTool("ffmpeg"),
		c.checkDownloadDir(settings.DownloadDir),
	}

	hasFailures := false
	for _, item := range items {
		if item.Status == domain.DiagnosticStatusFail {
			hasFailures = true
			break
		}
	}

	return domain.DiagnosticReport{
		GeneratedAt: time.Now().UTC(),
		HasFailures: hasFailures,
		Items:       items,
	}
}

// checkYtDlp looks for yt-dlp in the managed bin directory first, then on
// PATH, mirroring how downloads resolve the binary.
func (c *Checker) checkYtDlp() domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "tool_yt-dlp",
		Name: "yt-dlp",
	}

	managed := managedBinaryPath(c.managedBinDir)
	if info, err := c.stat(managed); err == nil && !info.IsDir() {
		item.Status = domain.DiagnosticStatusPass
		item.Message = fmt.Sprintf("Found managed binary at %s", managed)
		return item
	}

	path, err := c.lookPath("yt-dlp")
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "yt-dlp not found in PATH or managed directory"
		item.Hint = "Use Install to fetch yt-dlp automatically, or install it and ensure it is on PATH."
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Found at %s", path)
	return item
}

// checkTool verifies a required CLI executable is on PATH.
func (c *Checker) checkTool(name string) domain.DiagnosticItem {
	path, err := c.lookPath(name)
	if err != nil {
		return domain.DiagnosticItem{
			ID:      "tool_" + name,
			Name:    name,
			Status:  domain.DiagnosticStatusFail,
			Message: fmt.Sprintf("Tool not found in PATH: %s", name),
			Hint:    "Install it and ensure the binary is available on PATH. It is required for merging video and audio streams.",
		}
	}

	return domain.DiagnosticItem{
		ID:      "tool_" + name,
		Name:    name,
		Status:  domain.DiagnosticStatusPass,
		Message: fmt.Sprintf("Found at %s", path),
	}
}

// checkDownloadDir validates download directory existence and write access.
func (c *Checker) checkDownloadDir(downloadDir string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "download_dir",
		Name: "Download directory",
	}

	if strings.TrimSpace(downloadDir) == "" {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "Download directory is empty."
		item.Hint = "Set a download directory in settings."
		return item
	}

	if err := c.mkdirAll(downloadDir, 0o755); err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Cannot create download directory: %s", downloadDir)
		item.Hint = "Choose a writable location or adjust filesystem permissions."
		return item
	}

	tmpFile, err := c.createTemp(downloadDir, ".write-check-*")
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Download directory is not writable: %s", downloadDir)
		item.Hint = "Choose a writable directory for downloads."
		return item
	}

	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	_ = c.remove(tmpPath)

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Writable directory: %s", downloadDir)
	return item
}

// NewCheckerForTests creates checker with injectable dependencies.
func NewCheckerForTests(
	managedBinDir string,
	lookPath func(string) (string, error),
	stat func(string) (os.FileInfo, error),
	mkdirAll func(string, os.FileMode) error,
	createTemp func(string, string) (*os.File, error),
	remove func(string) error,
) *Checker {
	return &Checker{
		managedBinDir: managedBinDir,
		lookPath:      lookPath,
		stat:          stat,
		mkdirAll:      mkdirAll,
		createTemp:    createTemp,
		remove:        remove,
	}
}

// managedBinaryPath is where the app-managed yt-dlp binary would live.
func managedBinaryPath(binDir string) string {
	name := "yt-dlp"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	return filepath.Join(binDir, name)
}

// IsNotExist reports whether error represents file-not-found.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
