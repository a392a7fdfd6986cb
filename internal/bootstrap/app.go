// Package bootstrap wires the backend together and exposes it to the
// desktop UI through Wails bindings.
package bootstrap

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"youwee/internal/config"
	"youwee/internal/diagnostics"
	"youwee/internal/domain"
	"youwee/internal/download"
	"youwee/internal/history"
	"youwee/internal/logging"
	"youwee/internal/summarize"
	"youwee/internal/transcript"
	"youwee/internal/ytdlp"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// App wires configuration, the download supervisor, media metadata,
// transcripts, summaries, and UI runtime callbacks.
type App struct {
	Settings    domain.Settings
	Store       config.Store
	History     *history.Store
	Supervisor  *download.Supervisor
	Info        *ytdlp.Client
	Transcripts *transcript.Pipeline
	AI          *summarize.Client
	Diagnostics domain.DiagnosticReport

	assets   fs.FS
	checker  *diagnostics.Checker
	resolver *ytdlp.Resolver
	log      logging.Logger

	mu          sync.Mutex
	activeReqID string
	events      *download.EventBus
	runtimeCtx  context.Context
}

// New builds the application with persisted settings and startup diagnostics.
func New() (*App, error) {
	return NewWithAssets(nil)
}

// NewWithAssets builds the application and optionally configures embedded
// frontend assets.
func NewWithAssets(assets fs.FS) (*App, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user home: %w", err)
	}
	if err := ensureLocalBinOnPATH(homeDir); err != nil {
		return nil, fmt.Errorf("prepare local tool path: %w", err)
	}

	store := config.NewJSONStore(config.DefaultDir())
	settings, err := store.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	hist, err := history.Open(filepath.Join(config.DefaultDir(), "youwee.db"))
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	log := logging.NewWithSink("info", func(level, message string) {
		_ = hist.AddLog(level, message)
	})

	binDir := ytdlp.ManagedBinDir(homeDir)
	resolver := ytdlp.NewResolver(binDir)
	bin, err := resolver.Resolve(ytdlp.ToolName)
	if err != nil {
		// Diagnostics surface the missing tool; the bare name still works
		// once an install lands on PATH.
		bin = ytdlp.ToolName
	}
	runner := ytdlp.NewRunner(bin)

	checker := diagnostics.NewChecker(binDir)
	report := checker.Run(settings)

	return &App{
		Settings:    settings,
		Store:       store,
		History:     hist,
		Supervisor:  download.NewSupervisor(runner),
		Info:        ytdlp.NewClient(runner),
		Transcripts: transcript.NewPipeline(runner),
		AI:          summarize.NewClient(),
		Diagnostics: report,
		assets:      assets,
		checker:     checker,
		resolver:    resolver,
		log:         log,
		events:      download.NewEventBus(1000),
	}, nil
}

// Run starts the Wails desktop application and binds backend methods.
func (a *App) Run() error {
	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		assetOptions.Handler = http.FileServer(http.Dir("./frontend"))
	}

	return wails.Run(&options.App{
		Title:       "Youwee",
		Width:       1180,
		Height:      780,
		AssetServer: assetOptions,
		OnStartup:   a.Startup,
		OnShutdown: func(ctx context.Context) {
			a.mu.Lock()
			a.runtimeCtx = nil
			a.mu.Unlock()
			_ = a.History.Close()
		},
		Bind: []interface{}{a},
	})
}

// Startup stores Wails runtime context for push events.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runtimeCtx = ctx
}

// GetDiagnostics returns the latest cached diagnostics report.
func (a *App) GetDiagnostics() domain.DiagnosticReport {
	return a.Diagnostics
}

// RefreshDiagnostics reloads settings and reruns dependency checks.
func (a *App) RefreshDiagnostics() (domain.DiagnosticReport, error) {
	settings, err := a.Store.LoadSettings()
	if err != nil {
		return domain.DiagnosticReport{}, fmt.Errorf("load settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = settings
	a.Diagnostics = a.checker.Run(settings)
	report := a.Diagnostics
	a.mu.Unlock()

	return report, nil
}

// GetSettings loads and returns the latest persisted download settings.
func (a *App) GetSettings() (domain.Settings, error) {
	settings, err := a.Store.LoadSettings()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = settings
	a.mu.Unlock()

	return settings, nil
}

// SaveSettings normalizes and persists settings, then refreshes diagnostics.
func (a *App) SaveSettings(settings domain.Settings) (domain.Settings, error) {
	normalized := normalizeSettings(settings)
	if err := a.Store.SaveSettings(normalized); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = normalized
	if a.checker != nil {
		a.Diagnostics = a.checker.Run(normalized)
	}
	a.mu.Unlock()

	return normalized, nil
}

// GetAIConfig loads the persisted AI configuration.
func (a *App) GetAIConfig() (domain.AIConfig, error) {
	cfg, err := a.Store.LoadAIConfig()
	if err != nil {
		return domain.AIConfig{}, fmt.Errorf("load AI config: %w", err)
	}

	return normalizeAIConfig(cfg), nil
}

// SaveAIConfig normalizes and persists the AI configuration.
func (a *App) SaveAIConfig(cfg domain.AIConfig) (domain.AIConfig, error) {
	normalized := normalizeAIConfig(cfg)
	if err := a.Store.SaveAIConfig(normalized); err != nil {
		return domain.AIConfig{}, fmt.Errorf("save AI config: %w", err)
	}

	return normalized, nil
}

// PickDownloadDirectory opens a native directory picker for downloads.
func (a *App) PickDownloadDirectory() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.OpenDirectoryDialog(ctx, wailsruntime.OpenDialogOptions{
		Title: "Select download directory",
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// OpenDownloadFolder opens the given path (or configured download dir) in
// the platform file manager.
func (a *App) OpenDownloadFolder(path string) error {
	target := strings.TrimSpace(path)
	if target == "" {
		a.mu.Lock()
		target = a.Settings.DownloadDir
		a.mu.Unlock()
	}
	if target == "" {
		return fmt.Errorf("download path is empty")
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("resolve download path: %w", err)
	}

	openPath := target
	if !info.IsDir() {
		openPath = filepath.Dir(target)
	}

	return openInFileManager(openPath)
}

// runtimeContext returns current Wails runtime context for dialog APIs.
func (a *App) runtimeContext() (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runtimeCtx == nil {
		return nil, fmt.Errorf("runtime context is not initialized")
	}
	return a.runtimeCtx, nil
}

// normalizeSettings trims user inputs and applies defaults for empty fields.
func normalizeSettings(settings domain.Settings) domain.Settings {
	settings.DownloadDir = strings.TrimSpace(settings.DownloadDir)
	if settings.DownloadDir == "" {
		settings.DownloadDir = config.DefaultSettings().DownloadDir
	}
	if settings.Quality == "" {
		settings.Quality = domain.Quality1080p
	}
	settings.Format = strings.ToLower(strings.TrimSpace(settings.Format))
	if settings.Format == "" {
		settings.Format = "mp4"
	}
	return settings
}

// normalizeAIConfig trims user inputs and applies defaults for empty fields.
func normalizeAIConfig(cfg domain.AIConfig) domain.AIConfig {
	defaults := config.DefaultAIConfig()

	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.OllamaURL = strings.TrimSpace(cfg.OllamaURL)

	if cfg.Provider == "" {
		cfg.Provider = defaults.Provider
	}
	if cfg.Model == "" {
		cfg.Model = defaultModelFor(cfg.Provider)
	}
	if cfg.OllamaURL == "" {
		cfg.OllamaURL = defaults.OllamaURL
	}
	if cfg.SummaryStyle != domain.StyleDetailed {
		cfg.SummaryStyle = domain.StyleShort
	}
	if cfg.SummaryLanguage == "" {
		cfg.SummaryLanguage = defaults.SummaryLanguage
	}
	return cfg
}

// openInFileManager launches the platform file explorer for a path.
func openInFileManager(path string) error {
	var cmd *exec.Cmd
	switch goruntime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", filepath.Clean(path))
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch file manager: %w", err)
	}
	return nil
}

// newRequestID returns an identifier for a download request.
func newRequestID() string {
	return uuid.NewString()
}
