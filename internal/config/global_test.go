package config

import (
	"os"
	"path/filepath"
	"testing"
)

// withConfigHome points XDG_CONFIG_HOME at dir for the duration of the test.
func withConfigHome(t *testing.T, dir string) {
	t.Helper()
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)
	t.Setenv("XDG_CONFIG_HOME", dir)
}

func writeGlobalConfig(t *testing.T, dir, content string) {
	t.Helper()
	path := filepath.Join(dir, GlobalConfigDir, GlobalConfigFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := GlobalConfigPath(), "/custom/config/semrank/config.yml"; got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got, want := GlobalConfigPath(), filepath.Join(home, ".config", "semrank", "config.yml"); got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	withConfigHome(t, t.TempDir())

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if *cfg != (GlobalConfig{}) {
		t.Errorf("LoadGlobalConfig() = %+v, want empty", cfg)
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	dir := t.TempDir()
	withConfigHome(t, dir)
	writeGlobalConfig(t, dir, `
ollama_url: http://gpu-box:11434
default_model: nomic-embed-text
embed_rate_limit: 5
log_level: debug
log_max_size_mb: 3
`)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	want := GlobalConfig{
		OllamaURL:      "http://gpu-box:11434",
		DefaultModel:   "nomic-embed-text",
		EmbedRateLimit: 5,
		LogLevel:       "debug",
		LogMaxSizeMB:   3,
	}
	if *cfg != want {
		t.Errorf("LoadGlobalConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLoadGlobalConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "ollama_url: [unclosed"},
		{"negative rate", "embed_rate_limit: -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			withConfigHome(t, dir)
			writeGlobalConfig(t, dir, tt.content)

			if _, err := LoadGlobalConfig(); err == nil {
				t.Error("LoadGlobalConfig() should fail")
			}
		})
	}
}

func TestGlobalConfigCache(t *testing.T) {
	dir := t.TempDir()
	withConfigHome(t, dir)
	writeGlobalConfig(t, dir, "default_model: hash\n")

	first, err := LoadGlobalConfig()
	if err != nil {
		t.Fatal(err)
	}

	writeGlobalConfig(t, dir, "default_model: nomic-embed-text\n")
	second, err := LoadGlobalConfig()
	if err != nil {
		t.Fatal(err)
	}
	if second.DefaultModel != first.DefaultModel {
		t.Errorf("cached config changed: %q -> %q", first.DefaultModel, second.DefaultModel)
	}

	ResetGlobalConfigCache()
	third, err := LoadGlobalConfig()
	if err != nil {
		t.Fatal(err)
	}
	if third.DefaultModel != "nomic-embed-text" {
		t.Errorf("after reset DefaultModel = %q, want nomic-embed-text", third.DefaultModel)
	}
}
