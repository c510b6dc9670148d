// Package config handles loading and saving user configuration for lernkarten.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/f3rmion/lernkarten/internal/dictionary"
	"github.com/f3rmion/lernkarten/internal/flashcard"
	"github.com/f3rmion/lernkarten/internal/scrape"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file inside the config directory.
const FileName = "config.yaml"

// Config holds all user configuration.
type Config struct {
	BaseURL   string        `yaml:"base_url"`   // Root of the bilingual dictionaries
	UserAgent string        `yaml:"user_agent"` // Sent with every page request
	Timeout   time.Duration `yaml:"timeout"`    // Per request, e.g. "30s"
	From      string        `yaml:"from"`       // Source language of the words ("de" or "en")
	To        string        `yaml:"to"`         // Target language
	Delimiter string        `yaml:"delimiter"`  // Field delimiter for csv output
	DeckName  string        `yaml:"deck_name"`  // Deck name for apkg output
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseURL:   dictionary.DefaultBaseURL,
		UserAgent: scrape.DefaultUserAgent,
		Timeout:   scrape.DefaultTimeout,
		From:      string(dictionary.German),
		To:        string(dictionary.English),
		Delimiter: ",",
		DeckName:  "German-English",
	}
}

// Load reads the configuration file at path. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that would otherwise only fail later. An empty
// delimiter means the csv default.
func (c *Config) Validate() error {
	if c.Delimiter == "" {
		return nil
	}
	if err := flashcard.CheckDelimiter(c.Delimiter); err != nil {
		return fmt.Errorf("delimiter: %w", err)
	}
	return nil
}

// LoadDir loads FileName from dir, falling back to Default when the file does
// not exist.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lernkarten"), nil
}

// EnsureConfigDir creates dir if it doesn't exist.
func EnsureConfigDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
