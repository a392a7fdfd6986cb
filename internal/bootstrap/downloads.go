package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"youwee/internal/domain"
	"youwee/internal/download"
	"youwee/internal/history"
	"youwee/internal/ytdlp"
)

// progressEventName is the Wails event channel for download progress pushes.
const progressEventName = "download:progress"

// StartDownload begins a download for the given URL. Fields left empty on
// the request fall back to the persisted settings. The download runs
// asynchronously; progress arrives through DownloadEvents and runtime
// pushes. Only one download may be active at a time.
func (a *App) StartDownload(req domain.DownloadRequest) (domain.DownloadRequest, error) {
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return domain.DownloadRequest{}, fmt.Errorf("download URL is required")
	}

	// Resolve on every start; the tool may have been installed or removed
	// since the app came up.
	if a.resolver != nil {
		if _, err := a.resolver.Resolve(ytdlp.ToolName); err != nil {
			return domain.DownloadRequest{}, err
		}
	}

	settings, err := a.Store.LoadSettings()
	if err != nil {
		return domain.DownloadRequest{}, fmt.Errorf("load settings: %w", err)
	}
	settings = normalizeSettings(settings)

	if req.ID == "" {
		req.ID = newRequestID()
	}
	if req.OutputDir == "" {
		req.OutputDir = settings.DownloadDir
	}
	if req.Quality == "" {
		req.Quality = settings.Quality
	}
	if req.Format == "" {
		req.Format = settings.Format
	}

	if err := a.Supervisor.TryAcquire(); err != nil {
		return domain.DownloadRequest{}, err
	}

	a.mu.Lock()
	a.Settings = settings
	a.activeReqID = req.ID
	a.mu.Unlock()

	go a.runDownload(req)
	return req, nil
}

// StopDownload cancels the active download. Stopping with nothing running
// is a no-op.
func (a *App) StopDownload() {
	a.Supervisor.Stop()
}

// DownloadEvents returns all progress events with sequence greater than
// sinceSeq, oldest first.
func (a *App) DownloadEvents(sinceSeq int64) []download.Event {
	return a.events.Since(sinceSeq)
}

// runDownload supervises one download to a terminal state and records the
// outcome in history.
func (a *App) runDownload(req domain.DownloadRequest) {
	ctx := context.Background()
	a.log.Info(ctx, "download started: %s", req.URL)

	var last domain.DownloadProgress
	err := a.Supervisor.Run(ctx, req, func(progress domain.DownloadProgress) {
		last = progress
		a.publishProgress(progress)
	})

	status := domain.StatusFinished
	switch {
	case errors.Is(err, download.ErrCancelled):
		status = domain.StatusCancelled
		a.log.Info(ctx, "download cancelled: %s", req.URL)
	case err != nil:
		status = domain.StatusFailed
		a.log.Error(ctx, "download failed: %s: %v", req.URL, err)
	default:
		a.log.Info(ctx, "download finished: %s", req.URL)
	}

	if _, histErr := a.History.Add(history.Entry{
		URL:     req.URL,
		Title:   last.Title,
		Format:  req.Format,
		Quality: string(req.Quality),
		Status:  string(status),
	}); histErr != nil {
		a.log.Warn(ctx, "record download history: %v", histErr)
	}

	a.mu.Lock()
	if a.activeReqID == req.ID {
		a.activeReqID = ""
	}
	a.mu.Unlock()
}

// publishProgress stores the event for polling and pushes it to the UI.
func (a *App) publishProgress(progress domain.DownloadProgress) {
	published := a.events.Publish(progress)

	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx != nil {
		wailsruntime.EventsEmit(ctx, progressEventName, published)
	}
}
