package ytdlp

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"youwee/internal/domain"
)

// TestFormatExpression checks selector chains for common quality/format
// combinations.
func TestFormatExpression(t *testing.T) {
	tests := []struct {
		name    string
		quality domain.Quality
		format  string
		want    string
	}{
		{
			name:    "mp4 1080p",
			quality: domain.Quality1080p,
			format:  "mp4",
			want:    "bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/bestvideo[height<=1080]+bestaudio/best[height<=1080]/best",
		},
		{
			name:    "generic container 720p",
			quality: domain.Quality720p,
			format:  "webm",
			want:    "bestvideo[height<=720]+bestaudio/best[height<=720]/best",
		},
		{
			name:    "audio quality mp3",
			quality: domain.QualityAudio,
			format:  "mp3",
			want:    "bestaudio/best",
		},
		{
			name:    "m4a implies audio",
			quality: domain.Quality1080p,
			format:  "m4a",
			want:    "bestaudio[ext=m4a]/bestaudio/best",
		},
		{
			name:    "opus prefers webm source",
			quality: domain.QualityAudio,
			format:  "opus",
			want:    "bestaudio[ext=webm]/bestaudio/best",
		},
		{
			name:    "mp4 without height cap",
			quality: "",
			format:  "mp4",
			want:    "bestvideo[ext=mp4]+bestaudio[ext=m4a]/bestvideo+bestaudio/best",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatExpression(tt.quality, tt.format); got != tt.want {
				t.Fatalf("FormatExpression(%q, %q) = %q, want %q", tt.quality, tt.format, got, tt.want)
			}
		})
	}
}

// TestDownloadArgsVideo verifies the shape of a single-video invocation.
func TestDownloadArgsVideo(t *testing.T) {
	args := DownloadArgs(domain.DownloadRequest{
		URL:       "https://example.com/watch?v=abc",
		OutputDir: "/downloads",
		Quality:   domain.Quality720p,
		Format:    "mp4",
	})

	if args[0] != "--newline" {
		t.Fatalf("args[0] = %q, want --newline", args[0])
	}
	if !slices.Contains(args, "--no-playlist") {
		t.Fatal("expected --no-playlist for single video")
	}
	if !slices.Contains(args, "--merge-output-format") {
		t.Fatal("expected --merge-output-format for video download")
	}
	if slices.Contains(args, "-x") {
		t.Fatal("video download must not extract audio")
	}
	if args[len(args)-1] != "https://example.com/watch?v=abc" {
		t.Fatalf("last arg = %q, want the URL", args[len(args)-1])
	}

	wantOutput := filepath.Join("/downloads", "%(title)s.%(ext)s")
	if !slices.Contains(args, wantOutput) {
		t.Fatalf("args %v missing output template %q", args, wantOutput)
	}
}

// TestDownloadArgsAudio verifies extraction flags for audio downloads.
func TestDownloadArgsAudio(t *testing.T) {
	args := DownloadArgs(domain.DownloadRequest{
		URL:       "https://example.com/watch?v=abc",
		OutputDir: "/downloads",
		Quality:   domain.QualityAudio,
		Format:    "mp3",
	})

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-x --audio-format mp3 --audio-quality 0") {
		t.Fatalf("args %v missing audio extraction flags", args)
	}
	if slices.Contains(args, "--merge-output-format") {
		t.Fatal("audio download must not merge containers")
	}
}

// TestDownloadArgsAudioDefaultsToMp3 covers audio quality with a video
// container selected.
func TestDownloadArgsAudioDefaultsToMp3(t *testing.T) {
	args := DownloadArgs(domain.DownloadRequest{
		URL:       "https://example.com/watch?v=abc",
		OutputDir: "/downloads",
		Quality:   domain.QualityAudio,
		Format:    "mp4",
	})

	if !strings.Contains(strings.Join(args, " "), "--audio-format mp3") {
		t.Fatalf("args %v should fall back to mp3 extraction", args)
	}
}

// TestDownloadArgsPlaylist verifies --no-playlist is dropped when the
// request opts into playlists.
func TestDownloadArgsPlaylist(t *testing.T) {
	args := DownloadArgs(domain.DownloadRequest{
		URL:              "https://example.com/playlist?list=xyz",
		OutputDir:        "/downloads",
		Quality:          domain.Quality1080p,
		Format:           "mp4",
		DownloadPlaylist: true,
	})

	if slices.Contains(args, "--no-playlist") {
		t.Fatal("playlist request must not pass --no-playlist")
	}
}

// TestPlaylistArgsLimit verifies the optional entry cap.
func TestPlaylistArgsLimit(t *testing.T) {
	withLimit := PlaylistArgs("https://example.com/playlist", 25)
	if !slices.Contains(withLimit, "--playlist-end") || !slices.Contains(withLimit, "25") {
		t.Fatalf("args %v missing playlist cap", withLimit)
	}

	noLimit := PlaylistArgs("https://example.com/playlist", 0)
	if slices.Contains(noLimit, "--playlist-end") {
		t.Fatalf("args %v should not cap entries", noLimit)
	}
}

// TestSubtitleArgs verifies manual versus auto caption selection.
func TestSubtitleArgs(t *testing.T) {
	manual := SubtitleArgs("https://example.com/v", "/tmp/subs/transcript", false)
	if !slices.Contains(manual, "--write-subs") || slices.Contains(manual, "--write-auto-subs") {
		t.Fatalf("manual args = %v, want --write-subs only", manual)
	}

	auto := SubtitleArgs("https://example.com/v", "/tmp/subs/transcript", true)
	if !slices.Contains(auto, "--write-auto-subs") || slices.Contains(auto, "--write-subs") {
		t.Fatalf("auto args = %v, want --write-auto-subs only", auto)
	}

	if !slices.Contains(auto, "--skip-download") {
		t.Fatal("subtitle fetch must skip the media download")
	}
}
