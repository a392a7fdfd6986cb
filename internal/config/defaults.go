package config

import (
	"os"
	"path/filepath"

	"youwee/internal/domain"
	"youwee/internal/summarize"
)

// DefaultSettings returns baseline download preferences for first launch.
func DefaultSettings() domain.Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return domain.Settings{
		DownloadDir:      filepath.Join(homeDir, "Downloads"),
		Quality:          domain.Quality1080p,
		Format:           "mp4",
		DownloadPlaylist: false,
	}
}

// DefaultAIConfig returns the AI feature's out-of-the-box configuration:
// disabled, pointed at Gemini, with a local Ollama fallback URL prefilled.
func DefaultAIConfig() domain.AIConfig {
	return domain.AIConfig{
		Enabled:         false,
		Provider:        domain.ProviderGemini,
		APIKey:          "",
		Model:           "gemini-2.0-flash",
		OllamaURL:       summarize.DefaultOllamaURL,
		SummaryStyle:    domain.StyleShort,
		SummaryLanguage: "auto",
	}
}
