package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"youwee/internal/domain"
	"youwee/internal/history"
)

const (
	infoTimeout       = 30 * time.Second
	transcriptTimeout = 2 * time.Minute
	summaryTimeout    = 3 * time.Minute
)

// GetVideoInfo probes a URL and returns its metadata and format options.
func (a *App) GetVideoInfo(url string) (domain.VideoInfoResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), infoTimeout)
	defer cancel()

	info, err := a.Info.FetchInfo(ctx, strings.TrimSpace(url))
	if err != nil {
		a.log.Warn(ctx, "fetch video info: %v", err)
		return domain.VideoInfoResponse{}, err
	}
	return info, nil
}

// GetPlaylistEntries lists up to limit entries of a playlist URL.
func (a *App) GetPlaylistEntries(url string, limit int) ([]domain.PlaylistEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), infoTimeout)
	defer cancel()

	return a.Info.FetchPlaylistEntries(ctx, strings.TrimSpace(url), limit)
}

// GetAvailableSubtitles lists subtitle tracks advertised for a URL.
func (a *App) GetAvailableSubtitles(url string) ([]domain.SubtitleInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), infoTimeout)
	defer cancel()

	return a.Info.ListSubtitles(ctx, strings.TrimSpace(url))
}

// GetVideoTranscript acquires the best available transcript for a URL.
func (a *App) GetVideoTranscript(url string) (domain.Transcript, error) {
	ctx, cancel := context.WithTimeout(context.Background(), transcriptTimeout)
	defer cancel()

	transcript, err := a.Transcripts.Fetch(ctx, strings.TrimSpace(url))
	if err != nil {
		a.log.Warn(ctx, "fetch transcript: %v", err)
		return domain.Transcript{}, err
	}

	a.log.Info(ctx, "transcript acquired from %s", transcript.Source)
	return transcript, nil
}

// GenerateVideoSummary fetches the transcript for a URL and summarizes it
// with the configured AI backend. When historyID is non-empty the summary
// is also attached to that history entry.
func (a *App) GenerateVideoSummary(url, historyID string) (domain.SummaryResult, error) {
	cfg, err := a.GetAIConfig()
	if err != nil {
		return domain.SummaryResult{}, err
	}
	if !cfg.Enabled {
		return domain.SummaryResult{}, fmt.Errorf("AI summarization is disabled; enable it in Settings")
	}

	transcript, err := a.GetVideoTranscript(url)
	if err != nil {
		return domain.SummaryResult{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), summaryTimeout)
	defer cancel()

	result, err := a.AI.Summarize(ctx, transcript.Text, cfg)
	if err != nil {
		a.log.Error(ctx, "summarize transcript: %v", err)
		return domain.SummaryResult{}, err
	}

	if historyID != "" {
		if updateErr := a.History.UpdateSummary(historyID, result.Summary); updateErr != nil {
			a.log.Warn(ctx, "attach summary to history: %v", updateErr)
		}
	}

	return result, nil
}

// TestAIConnection verifies the persisted AI configuration end to end.
func (a *App) TestAIConnection() (string, error) {
	cfg, err := a.GetAIConfig()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), summaryTimeout)
	defer cancel()

	return a.AI.TestConnection(ctx, cfg)
}

// GetHistory returns all download history entries, newest first.
func (a *App) GetHistory() ([]history.Entry, error) {
	return a.History.List()
}

// DeleteHistoryEntry removes one history entry.
func (a *App) DeleteHistoryEntry(id string) error {
	return a.History.Delete(id)
}

// GetLogs returns up to limit recent application log lines.
func (a *App) GetLogs(limit int) ([]history.LogEntry, error) {
	return a.History.RecentLogs(limit)
}

// ClearLogs removes all stored application log lines.
func (a *App) ClearLogs() error {
	return a.History.ClearLogs()
}
