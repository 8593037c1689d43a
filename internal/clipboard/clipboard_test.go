package clipboard

import (
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func fakeLookPath(installed ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestFindTool(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		installed []string
		want      string
		wantErr   bool
	}{
		{"macOS", "darwin", []string{"pbcopy"}, "pbcopy", false},
		{"wayland preferred", "linux", []string{"xclip", "wl-copy"}, "wl-copy", false},
		{"xclip before xsel", "linux", []string{"xsel", "xclip"}, "xclip", false},
		{"xsel fallback", "linux", []string{"xsel"}, "xsel", false},
		{"nothing installed", "linux", nil, "", true},
		{"unsupported platform", "windows", []string{"pbcopy", "xclip"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := findTool(tt.goos, fakeLookPath(tt.installed...))
			if tt.wantErr {
				if !errors.Is(err, ErrClipboardUnavailable) {
					t.Fatalf("findTool() error = %v, want ErrClipboardUnavailable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("findTool() error = %v", err)
			}
			if got.name != tt.want {
				t.Errorf("findTool() = %s, want %s", got.name, tt.want)
			}
		})
	}
}

func TestToolsHaveBothDirections(t *testing.T) {
	for goos, list := range tools {
		for _, tl := range list {
			if len(tl.copy) == 0 || len(tl.paste) == 0 {
				t.Errorf("%s/%s: copy %v, paste %v", goos, tl.name, tl.copy, tl.paste)
			}
		}
	}
}

func TestCopyPasteRoundTrip(t *testing.T) {
	if !IsAvailable() {
		t.Skip("clipboard not available on this system")
	}
	if err := Copy("semrank clipboard test"); err != nil {
		t.Skipf("clipboard not usable: %v", err)
	}
	got, err := Paste()
	if err != nil {
		t.Skipf("clipboard not readable: %v", err)
	}
	if strings.TrimSpace(got) != "semrank clipboard test" {
		t.Errorf("Paste() = %q, want %q", got, "semrank clipboard test")
	}
}
