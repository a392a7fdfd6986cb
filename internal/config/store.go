// Package config persists user preferences as JSON files under the
// application's home directory (~/.youwee by default).
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"youwee/internal/domain"
)

// Store defines persistence operations for app preferences.
type Store interface {
	LoadSettings() (domain.Settings, error)
	SaveSettings(domain.Settings) error
	LoadAIConfig() (domain.AIConfig, error)
	SaveAIConfig(domain.AIConfig) error
}

// JSONStore persists each preferences document as its own JSON file
// inside a single directory.
type JSONStore struct {
	dir string
}

// NewJSONStore creates a JSON-backed store rooted at dir.
func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

// DefaultDir returns the standard preferences directory for the current user.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return filepath.Join(homeDir, ".youwee")
}

// LoadSettings reads download settings from disk or returns defaults when
// the file does not exist yet.
func (s *JSONStore) LoadSettings() (domain.Settings, error) {
	var cfg domain.Settings
	if err := s.load("settings.json", &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}

		return domain.Settings{}, err
	}

	return cfg, nil
}

// SaveSettings writes download settings as indented JSON.
func (s *JSONStore) SaveSettings(cfg domain.Settings) error {
	return s.save("settings.json", cfg)
}

// LoadAIConfig reads the AI configuration or returns defaults when missing.
func (s *JSONStore) LoadAIConfig() (domain.AIConfig, error) {
	var cfg domain.AIConfig
	if err := s.load("ai_config.json", &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultAIConfig(), nil
		}

		return domain.AIConfig{}, err
	}

	return cfg, nil
}

// SaveAIConfig writes the AI configuration as indented JSON.
func (s *JSONStore) SaveAIConfig(cfg domain.AIConfig) error {
	return s.save("ai_config.json", cfg)
}

func (s *JSONStore) load(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}

	return json.Unmarshal(data, out)
}

func (s *JSONStore) save(name string, cfg any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}
