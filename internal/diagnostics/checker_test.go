package diagnostics

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"youwee/internal/domain"
)

type fakeFileInfo struct {
	name string
	dir  bool
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() fs.FileMode  { return 0o755 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return f.dir }
func (f fakeFileInfo) Sys() any           { return nil }

func testSettings(t *testing.T) domain.Settings {
	t.Helper()
	return domain.Settings{
		DownloadDir: t.TempDir(),
		Quality:     domain.Quality1080p,
		Format:      "mp4",
	}
}

// TestRunAllPass verifies the report when every dependency is present.
func TestRunAllPass(t *testing.T) {
	c := NewCheckerForTests(
		"/managed/bin",
		func(name string) (string, error) { return "/usr/bin/" + name, nil },
		func(string) (os.FileInfo, error) { return nil, os.ErrNotExist },
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := c.Run(testSettings(t))
	if report.HasFailures {
		t.Fatalf("report has failures: %+v", report.Items)
	}
	if len(report.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(report.Items))
	}
	if report.GeneratedAt.IsZero() {
		t.Fatal("report should be timestamped")
	}
}

// TestRunPrefersManagedBinary reports the managed yt-dlp copy when present.
func TestRunPrefersManagedBinary(t *testing.T) {
	c := NewCheckerForTests(
		"/managed/bin",
		func(name string) (string, error) { return "", errors.New("not on PATH") },
		func(path string) (os.FileInfo, error) {
			if strings.HasPrefix(path, "/managed/bin") {
				return fakeFileInfo{name: filepath.Base(path)}, nil
			}
			return nil, os.ErrNotExist
		},
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := c.Run(testSettings(t))
	for _, item := range report.Items {
		if item.ID == "tool_yt-dlp" {
			if item.Status != domain.DiagnosticStatusPass {
				t.Fatalf("yt-dlp item = %+v, want pass via managed binary", item)
			}
			if !strings.Contains(item.Message, "/managed/bin") {
				t.Fatalf("message = %q, want managed path", item.Message)
			}
			return
		}
	}
	t.Fatal("yt-dlp item missing from report")
}

// TestRunMissingTools flags absent executables with install hints.
func TestRunMissingTools(t *testing.T) {
	c := NewCheckerForTests(
		"/managed/bin",
		func(string) (string, error) { return "", errors.New("not found") },
		func(string) (os.FileInfo, error) { return nil, os.ErrNotExist },
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := c.Run(testSettings(t))
	if !report.HasFailures {
		t.Fatal("expected failures with no tools available")
	}

	for _, item := range report.Items {
		switch item.ID {
		case "tool_yt-dlp":
			if item.Status != domain.DiagnosticStatusFail || item.Hint == "" {
				t.Fatalf("yt-dlp item = %+v, want failure with hint", item)
			}
		case "tool_ffmpeg":
			if item.Status != domain.DiagnosticStatusFail {
				t.Fatalf("ffmpeg item = %+v, want failure", item)
			}
		}
	}
}

// TestRunDownloadDirChecks covers empty and unwritable directories.
func TestRunDownloadDirChecks(t *testing.T) {
	lookPath := func(name string) (string, error) { return "/usr/bin/" + name, nil }
	stat := func(string) (os.FileInfo, error) { return nil, os.ErrNotExist }

	t.Run("empty dir fails", func(t *testing.T) {
		c := NewCheckerForTests("/managed/bin", lookPath, stat, os.MkdirAll, os.CreateTemp, os.Remove)
		report := c.Run(domain.Settings{DownloadDir: "  "})
		if !report.HasFailures {
			t.Fatal("empty download dir should fail")
		}
	})

	t.Run("unwritable dir fails", func(t *testing.T) {
		c := NewCheckerForTests(
			"/managed/bin", lookPath, stat,
			func(string, os.FileMode) error { return nil },
			func(string, string) (*os.File, error) { return nil, errors.New("permission denied") },
			func(string) error { return nil },
		)
		report := c.Run(domain.Settings{DownloadDir: "/readonly"})
		if !report.HasFailures {
			t.Fatal("unwritable download dir should fail")
		}
	})

	t.Run("writable dir passes and cleans up", func(t *testing.T) {
		removed := ""
		c := NewCheckerForTests(
			"/managed/bin", lookPath, stat,
			os.MkdirAll,
			os.CreateTemp,
			func(path string) error {
				removed = path
				return os.Remove(path)
			},
		)
		report := c.Run(testSettings(t))
		if report.HasFailures {
			t.Fatalf("report = %+v", report.Items)
		}
		if removed == "" {
			t.Fatal("write probe file should be removed")
		}
	})
}
