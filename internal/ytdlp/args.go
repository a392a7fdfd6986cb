package ytdlp

import (
	"fmt"
	"path/filepath"
	"strconv"

	"youwee/internal/domain"
)

// Language set requested for caption downloads, widest-variant patterns.
const subtitleLangs = "en.*,vi.*,ja.*,ko.*,zh.*,es.*,fr.*,de.*,pt.*,ru.*"

// FormatExpression maps a quality tier and container to a declarative
// format selector with a codec fallback chain.
func FormatExpression(quality domain.Quality, format string) string {
	if quality == domain.QualityAudio || isAudioFormat(format) {
		switch format {
		case "mp3":
			return "bestaudio/best"
		case "m4a":
			return "bestaudio[ext=m4a]/bestaudio/best"
		case "opus":
			return "bestaudio[ext=webm]/bestaudio/best"
		default:
			return "bestaudio[ext=m4a]/bestaudio/best"
		}
	}

	height := heightFor(quality)
	if format == "mp4" {
		if height != "" {
			return fmt.Sprintf(
				"bestvideo[height<=%s][ext=mp4]+bestaudio[ext=m4a]/bestvideo[height<=%s]+bestaudio/best[height<=%s]/best",
				height, height, height,
			)
		}
		return "bestvideo[ext=mp4]+bestaudio[ext=m4a]/bestvideo+bestaudio/best"
	}

	if height != "" {
		return fmt.Sprintf("bestvideo[height<=%s]+bestaudio/best[height<=%s]/best", height, height)
	}
	return "bestvideo+bestaudio/best"
}

// DownloadArgs builds the argument vector for one download request.
func DownloadArgs(req domain.DownloadRequest) []string {
	args := []string{
		"--newline",
		"-f", FormatExpression(req.Quality, req.Format),
		"-o", filepath.Join(req.OutputDir, "%(title)s.%(ext)s"),
	}

	if !req.DownloadPlaylist {
		args = append(args, "--no-playlist")
	}

	if req.Quality == domain.QualityAudio || isAudioFormat(req.Format) {
		target := req.Format
		if !isAudioFormat(target) {
			target = "mp3"
		}
		args = append(args, "-x", "--audio-format", target, "--audio-quality", "0")
	} else {
		args = append(args, "--merge-output-format", req.Format)
	}

	return append(args, req.URL)
}

// InfoArgs builds an info-probe invocation emitting one JSON object.
func InfoArgs(url string) []string {
	return []string{
		"--dump-json",
		"--no-download",
		"--no-playlist",
		"--no-warnings",
		"--socket-timeout", "15",
		url,
	}
}

// PlaylistArgs builds a flat playlist probe emitting JSON lines.
func PlaylistArgs(url string, limit int) []string {
	args := []string{
		"--flat-playlist",
		"--dump-json",
		"--no-warnings",
		"--socket-timeout", "30",
	}
	if limit > 0 {
		args = append(args, "--playlist-end", strconv.Itoa(limit))
	}
	return append(args, url)
}

// SubtitleListArgs builds an invocation listing available caption tracks.
func SubtitleListArgs(url string) []string {
	return []string{
		"--list-subs",
		"--skip-download",
		"--no-warnings",
		url,
	}
}

// SubtitleArgs builds a subtitle-only fetch writing caption files under
// outTemplate. auto selects auto-generated captions instead of
// human-authored tracks.
func SubtitleArgs(url, outTemplate string, auto bool) []string {
	subsFlag := "--write-subs"
	if auto {
		subsFlag = "--write-auto-subs"
	}
	return []string{
		"--skip-download",
		subsFlag,
		"--sub-langs", subtitleLangs,
		"--convert-subs", "vtt",
		"-o", outTemplate,
		"--no-warnings",
		"--no-check-certificates",
		url,
	}
}

// DescriptionArgs builds an invocation printing the item's description.
func DescriptionArgs(url string) []string {
	return []string{
		"--skip-download",
		"--print", "%(description)s",
		"--no-warnings",
		url,
	}
}

// isAudioFormat reports whether the container implies audio extraction.
func isAudioFormat(format string) bool {
	switch format {
	case "mp3", "m4a", "opus":
		return true
	default:
		return false
	}
}

// heightFor maps a video quality tier to its pixel-height ceiling.
func heightFor(quality domain.Quality) string {
	switch quality {
	case domain.Quality360p, domain.Quality480p, domain.Quality720p,
		domain.Quality1080p, domain.Quality1440p, domain.Quality2160p:
		return string(quality)
	default:
		return ""
	}
}
