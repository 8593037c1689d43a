package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file configuration.
const (
	EnvRoot      = "SEMRANK_ROOT"
	EnvOllamaURL = "SEMRANK_OLLAMA_URL"
	EnvModel     = "SEMRANK_MODEL"
	EnvRateLimit = "SEMRANK_EMBED_RATE_LIMIT"
	EnvLogLevel  = "SEMRANK_LOG_LEVEL"
)

// Settings is the effective configuration after layering
// environment over repository config over global config.
type Settings struct {
	Model          string  `json:"model"`
	OllamaURL      string  `json:"ollama_url,omitempty"`
	EmbedRateLimit float64 `json:"embed_rate_limit,omitempty"`
	LogLevel       string  `json:"log_level"`
	LogMaxSizeMB   int     `json:"log_max_size_mb"`
	ContextFile    string  `json:"context_file,omitempty"` // Absolute
}

// Defaults applied when no layer sets a value.
const (
	DefaultLogLevel     = "info"
	DefaultLogMaxSizeMB = 10
)

// LoadEnv loads .env files from the current directory and, if different,
// the repository root. Variables already set in the environment win.
func LoadEnv(root string) {
	_ = godotenv.Load()
	if root == "" {
		return
	}
	rootEnv := filepath.Join(root, ".env")
	if abs, err := filepath.Abs(".env"); err == nil && abs == rootEnv {
		return
	}
	_ = godotenv.Load(rootEnv)
}

// Resolve layers the environment over repo over global configuration.
// defaultModel is used when no layer names a model.
func Resolve(root string, repo *Config, global *GlobalConfig, defaultModel string) Settings {
	if repo == nil {
		repo = &Config{}
	}
	if global == nil {
		global = &GlobalConfig{}
	}

	s := Settings{
		Model:          firstNonEmpty(os.Getenv(EnvModel), repo.Model, global.DefaultModel, defaultModel),
		OllamaURL:      firstNonEmpty(os.Getenv(EnvOllamaURL), repo.OllamaURL, global.OllamaURL),
		EmbedRateLimit: global.EmbedRateLimit,
		LogLevel:       firstNonEmpty(os.Getenv(EnvLogLevel), global.LogLevel, DefaultLogLevel),
		LogMaxSizeMB:   global.LogMaxSizeMB,
		ContextFile:    repo.ResolveContextPath(root),
	}

	if v := os.Getenv(EnvRateLimit); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			s.EmbedRateLimit = f
		}
	}
	if s.LogMaxSizeMB <= 0 {
		s.LogMaxSizeMB = DefaultLogMaxSizeMB
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
