// Package config loads the application configuration from a JSON file in
// the user's home directory, creating it with defaults on first run.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	DefaultModel string            `json:"default_model"`
	Generation   GenerationConfig  `json:"generation"`
	APIKeys      map[string]string `json:"api_keys"`
	Sidebars     []SidebarConfig   `json:"sidebars"`
	LogLevel     string            `json:"log_level"`
	LogFormat    string            `json:"log_format"`
	LogFile      string            `json:"log_file"`
}

// GenerationConfig holds request defaults for the AI providers
type GenerationConfig struct {
	Temperature       float64 `json:"temperature"`
	MaxTokens         int     `json:"max_tokens"`
	APITimeoutSeconds int     `json:"api_timeout_seconds"`
}

// SidebarConfig declares one sidebar instance
type SidebarConfig struct {
	ID            string       `json:"id"`
	Dock          string       `json:"dock"` // "left" | "right"
	WidthPx       int          `json:"width_px"`
	Overlay       *bool        `json:"overlay,omitempty"`
	InitiallyOpen bool         `json:"initially_open"`
	InitialPanel  string       `json:"initial_panel,omitempty"`
	Keymap        KeymapConfig `json:"keymap"`
}

// KeymapConfig is the toggle chord for a sidebar, either one chord for all
// platforms or mac/win variants
type KeymapConfig struct {
	Chord string `json:"chord,omitempty"`
	Mac   string `json:"mac,omitempty"`
	Win   string `json:"win,omitempty"`
}

// Default returns a configuration with default values
func Default() Config {
	overlayOff := false
	return Config{
		DefaultModel: "openai:gpt-4o",
		Generation: GenerationConfig{
			Temperature:       0.7,
			MaxTokens:         2000,
			APITimeoutSeconds: 120,
		},
		APIKeys: map[string]string{},
		Sidebars: []SidebarConfig{
			{
				ID:      "left",
				Dock:    "left",
				WidthPx: 250,
				Overlay: &overlayOff,
				Keymap:  KeymapConfig{Mac: "cmd+b", Win: "ctrl+b"},
			},
			{
				ID:      "right",
				Dock:    "right",
				WidthPx: 300,
				Keymap:  KeymapConfig{Mac: "cmd+l", Win: "ctrl+l"},
			},
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load loads configuration from the specified path
// If the file doesn't exist, creates one with default values
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := Save(configPath, cfg); err != nil {
				return Config{}, fmt.Errorf("failed to create default config: %w", err)
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got: %f", c.Generation.Temperature)
	}
	if c.Generation.MaxTokens < 0 {
		return fmt.Errorf("max_tokens cannot be negative, got: %d", c.Generation.MaxTokens)
	}
	if c.Generation.APITimeoutSeconds <= 0 {
		return fmt.Errorf("api_timeout_seconds must be positive, got: %d", c.Generation.APITimeoutSeconds)
	}

	seen := map[string]bool{}
	for _, sb := range c.Sidebars {
		if sb.ID == "" {
			return fmt.Errorf("sidebar id cannot be empty")
		}
		if seen[sb.ID] {
			return fmt.Errorf("duplicate sidebar id: %s", sb.ID)
		}
		seen[sb.ID] = true

		if sb.Dock != "left" && sb.Dock != "right" {
			return fmt.Errorf("sidebar %s: dock must be left or right, got: %s", sb.ID, sb.Dock)
		}
		if sb.WidthPx != 0 && (sb.WidthPx < 150 || sb.WidthPx > 800) {
			return fmt.Errorf("sidebar %s: width_px must be between 150 and 800, got: %d", sb.ID, sb.WidthPx)
		}
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".margin/config.json"
	}
	return filepath.Join(homeDir, ".margin", "config.json")
}
