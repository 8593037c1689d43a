// Package config handles repository configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents repository configuration stored in .semrank/config.json.
type Config struct {
	ContextFile string `json:"context_file"`         // Research context text file, absolute or relative to the root
	Model       string `json:"model,omitempty"`      // Encoder model id; empty uses the global default
	OllamaURL   string `json:"ollama_url,omitempty"` // Overrides the global Ollama URL
}

const (
	SemrankDir  = ".semrank"
	ConfigFile  = "config.json"
	PapersFile  = "papers.json"
	CacheDir    = "cache"
	DBFile      = "papers.db"
	ContextFile = "context.gob"
	LogsDir     = "logs"
	LogFile     = "semrank.log"
)

// SemrankPath returns the path to the .semrank directory from a root path.
func SemrankPath(root string) string {
	return filepath.Join(root, SemrankDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, SemrankDir, ConfigFile)
}

// PapersPath returns the path to the document snapshot from a root path.
func PapersPath(root string) string {
	return filepath.Join(root, SemrankDir, PapersFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, SemrankDir, CacheDir)
}

// DBPath returns the path to papers.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, SemrankDir, CacheDir, DBFile)
}

// LogPath returns the path to the log file from a root path.
func LogPath(root string) string {
	return filepath.Join(root, SemrankDir, LogsDir, LogFile)
}

// IsRepository checks if the given path contains a semrank repository.
func IsRepository(root string) bool {
	info, err := os.Stat(SemrankPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a semrank repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a semrank repository (no %s directory found)", SemrankDir)
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ResolveContextPath returns the context file as an absolute path.
// Relative paths are taken from the repository root.
func (c *Config) ResolveContextPath(root string) string {
	if c.ContextFile == "" {
		return ""
	}
	path := ExpandPath(c.ContextFile)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// ValidateContextFile checks that the context file exists and is a regular file.
func ValidateContextFile(path string) error {
	if path == "" {
		return fmt.Errorf("no context file configured")
	}

	expandedPath := ExpandPath(path)

	info, err := os.Stat(expandedPath)
	if err != nil {
		return fmt.Errorf("context file does not exist: %s", expandedPath)
	}
	if info.IsDir() {
		return fmt.Errorf("context file is a directory: %s", expandedPath)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
