// Package config loads process-wide settings once at startup. Components
// receive what they need at construction; nothing reads the environment
// after that.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"

	"finlens/pkg/core/metrics"
	"finlens/pkg/core/table"
)

// Settings is the full application configuration, immutable after load.
type Settings struct {
	// LLM
	BaseURL        string
	Model          string
	APIKey         string
	GeminiAPIKey   string
	MaxRetries     int
	TimeoutSeconds int

	// Data limits
	MaxRows    int
	MinPeriods int

	Thresholds metrics.Config
	Synonyms   table.SynonymTable
}

// FromEnv reads settings from environment variables with production defaults.
// Call godotenv.Load first when a .env file should be honored.
func FromEnv() Settings {
	return Settings{
		BaseURL:        getenv("LLM_BASE_URL", "https://api.openai.com/v1"),
		Model:          getenv("LLM_MODEL", "gpt-4o"),
		APIKey:         os.Getenv("LLM_API_KEY"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		MaxRetries:     getenvInt("LLM_MAX_RETRIES", 2),
		TimeoutSeconds: getenvInt("LLM_TIMEOUT_SECONDS", 60),
		MaxRows:        getenvInt("MAX_ROWS", 100),
		MinPeriods:     getenvInt("MIN_PERIODS", 3),
		Thresholds:     metrics.DefaultConfig(),
		Synonyms:       table.DefaultSynonyms(),
	}
}

// fileOverrides is the optional YAML config shape: threshold tweaks and
// synonym-table extensions, so the mapping stays data-driven.
type fileOverrides struct {
	Thresholds *metrics.Config    `yaml:"thresholds"`
	Synonyms   table.SynonymTable `yaml:"synonyms"`
}

// LoadFile merges overrides from a YAML file into the settings. A missing
// file is not an error; the defaults simply apply.
func (s *Settings) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var overrides fileOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if overrides.Thresholds != nil {
		s.Thresholds = *overrides.Thresholds
	}
	if len(overrides.Synonyms) > 0 {
		s.Synonyms = overrides.Synonyms
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
