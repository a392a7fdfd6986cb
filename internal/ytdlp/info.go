package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"youwee/internal/domain"
)

// commander abstracts buffered probe execution for testability.
type commander interface {
	Output(ctx context.Context, args ...string) (string, error)
}

// ErrNoPlaylistEntries is returned when a playlist probe yields nothing.
var ErrNoPlaylistEntries = errors.New("no videos found in playlist")

// Client issues info-probe invocations and parses their JSON output.
type Client struct {
	run commander
}

// NewClient wraps a runner for probe calls.
func NewClient(runner *Runner) *Client {
	return &Client{run: runner}
}

// NewClientForTests creates a client with an injectable command runner.
func NewClientForTests(run commander) *Client {
	return &Client{run: run}
}

// probeJSON mirrors the JSON object the tool prints for --dump-json.
type probeJSON struct {
	Type          string       `json:"_type"`
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Thumbnail     string       `json:"thumbnail"`
	Duration      float64      `json:"duration"`
	Channel       string       `json:"channel"`
	Uploader      string       `json:"uploader"`
	UploadDate    string       `json:"upload_date"`
	ViewCount     uint64       `json:"view_count"`
	Description   string       `json:"description"`
	PlaylistCount int          `json:"playlist_count"`
	Formats       []formatJSON `json:"formats"`
}

type formatJSON struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	Resolution     string  `json:"resolution"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	TBR            float64 `json:"tbr"`
	FormatNote     string  `json:"format_note"`
	FPS            float64 `json:"fps"`
}

type playlistEntryJSON struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Thumbnail  string  `json:"thumbnail"`
	Duration   float64 `json:"duration"`
	Channel    string  `json:"channel"`
	Uploader   string  `json:"uploader"`
	Thumbnails []struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
}

// FetchInfo probes one URL for metadata and available formats.
func (c *Client) FetchInfo(ctx context.Context, url string) (domain.VideoInfoResponse, error) {
	out, err := c.run.Output(ctx, InfoArgs(url)...)
	if err != nil {
		return domain.VideoInfoResponse{}, err
	}

	var raw probeJSON
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		return domain.VideoInfoResponse{}, fmt.Errorf("parse info output: %w", err)
	}

	isPlaylist := raw.Type == "playlist"
	info := domain.VideoInfo{
		ID:          raw.ID,
		Title:       raw.Title,
		Thumbnail:   raw.Thumbnail,
		Duration:    raw.Duration,
		Channel:     raw.Channel,
		Uploader:    raw.Uploader,
		UploadDate:  raw.UploadDate,
		ViewCount:   raw.ViewCount,
		Description: truncateDescription(raw.Description),
		IsPlaylist:  isPlaylist,
	}
	if info.Title == "" {
		info.Title = "Unknown"
	}
	if isPlaylist {
		info.PlaylistCount = raw.PlaylistCount
	}

	formats := make([]domain.FormatOption, 0, len(raw.Formats))
	for _, f := range raw.Formats {
		if f.FormatID == "" {
			continue
		}
		ext := f.Ext
		if ext == "" {
			ext = "unknown"
		}
		formats = append(formats, domain.FormatOption{
			FormatID:       f.FormatID,
			Ext:            ext,
			Resolution:     f.Resolution,
			Width:          f.Width,
			Height:         f.Height,
			VCodec:         f.VCodec,
			ACodec:         f.ACodec,
			Filesize:       f.Filesize,
			FilesizeApprox: f.FilesizeApprox,
			TBR:            f.TBR,
			FormatNote:     f.FormatNote,
			FPS:            f.FPS,
		})
	}

	return domain.VideoInfoResponse{Info: info, Formats: formats}, nil
}

// FetchPlaylistEntries probes a playlist URL for its flat item list.
// Malformed JSON lines are skipped, not escalated.
func (c *Client) FetchPlaylistEntries(ctx context.Context, url string, limit int) ([]domain.PlaylistEntry, error) {
	out, err := c.run.Output(ctx, PlaylistArgs(url, limit)...)
	if err != nil {
		return nil, err
	}

	var entries []domain.PlaylistEntry
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var raw playlistEntryJSON
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			continue
		}
		if raw.ID == "" {
			continue
		}

		title := raw.Title
		if title == "" {
			title = "Unknown"
		}
		thumbnail := raw.Thumbnail
		if thumbnail == "" && len(raw.Thumbnails) > 0 {
			thumbnail = raw.Thumbnails[0].URL
		}
		channel := raw.Channel
		if channel == "" {
			channel = raw.Uploader
		}

		entries = append(entries, domain.PlaylistEntry{
			ID:        raw.ID,
			Title:     title,
			URL:       "https://www.youtube.com/watch?v=" + raw.ID,
			Thumbnail: thumbnail,
			Duration:  raw.Duration,
			Channel:   channel,
		})
	}

	if len(entries) == 0 {
		return nil, ErrNoPlaylistEntries
	}
	return entries, nil
}

// subtitleLanguageNames maps common language codes to display names.
var subtitleLanguageNames = map[string]string{
	"en":      "English",
	"vi":      "Vietnamese",
	"ja":      "Japanese",
	"ko":      "Korean",
	"zh":      "Chinese",
	"zh-Hans": "Chinese (Simplified)",
	"zh-Hant": "Chinese (Traditional)",
	"th":      "Thai",
	"id":      "Indonesian",
	"ms":      "Malay",
	"fr":      "French",
	"de":      "German",
	"es":      "Spanish",
	"pt":      "Portuguese",
	"ru":      "Russian",
	"ar":      "Arabic",
	"hi":      "Hindi",
	"it":      "Italian",
	"nl":      "Dutch",
	"pl":      "Polish",
	"tr":      "Turkish",
	"uk":      "Ukrainian",
}

// ListSubtitles parses the tool's caption track listing. The listing has a
// manual section and an automatic-captions section; each data row starts
// with a language code.
func (c *Client) ListSubtitles(ctx context.Context, url string) ([]domain.SubtitleInfo, error) {
	out, err := c.run.Output(ctx, SubtitleListArgs(url)...)

	var subtitles []domain.SubtitleInfo
	if err == nil {
		isAutoSection := false
		for _, line := range strings.Split(out, "\n") {
			line = strings.TrimSpace(line)

			if strings.Contains(line, "automatic captions") || strings.Contains(line, "auto-generated") {
				isAutoSection = true
				continue
			}
			if strings.Contains(line, "subtitles") && !strings.Contains(line, "auto") {
				isAutoSection = false
				continue
			}
			if line == "" || strings.HasPrefix(line, "Language") ||
				strings.HasPrefix(line, "[") || strings.Contains(line, "Available") {
				continue
			}

			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			lang := fields[0]
			if hasSubtitle(subtitles, lang, isAutoSection) {
				continue
			}

			name := subtitleLanguageNames[lang]
			if name == "" {
				name = lang
			}
			subtitles = append(subtitles, domain.SubtitleInfo{
				Lang:   lang,
				Name:   name,
				IsAuto: isAutoSection,
			})
		}
	}

	if len(subtitles) == 0 {
		subtitles = defaultSubtitleList()
	}
	return subtitles, nil
}

func hasSubtitle(subtitles []domain.SubtitleInfo, lang string, isAuto bool) bool {
	for _, s := range subtitles {
		if s.Lang == lang && s.IsAuto == isAuto {
			return true
		}
	}
	return false
}

func defaultSubtitleList() []domain.SubtitleInfo {
	return []domain.SubtitleInfo{
		{Lang: "en", Name: "English"},
		{Lang: "vi", Name: "Vietnamese"},
		{Lang: "ja", Name: "Japanese"},
		{Lang: "ko", Name: "Korean"},
		{Lang: "zh", Name: "Chinese"},
	}
}

// truncateDescription keeps description previews to a bounded size.
func truncateDescription(desc string) string {
	const maxRunes = 200
	runes := []rune(desc)
	if len(runes) <= maxRunes {
		return desc
	}
	return string(runes[:maxRunes]) + "..."
}
