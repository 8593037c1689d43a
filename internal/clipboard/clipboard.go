// Package clipboard reads and writes the system clipboard through the
// platform's command-line tools.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard tool is installed.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// tool is one clipboard program with its copy and paste invocations.
type tool struct {
	name  string
	copy  []string
	paste []string
}

// tools lists the supported programs per platform, in order of preference.
var tools = map[string][]tool{
	"darwin": {
		{name: "pbcopy", copy: []string{"pbcopy"}, paste: []string{"pbpaste"}},
	},
	"linux": {
		{name: "wl-copy", copy: []string{"wl-copy"}, paste: []string{"wl-paste", "--no-newline"}},
		{name: "xclip", copy: []string{"xclip", "-selection", "clipboard"}, paste: []string{"xclip", "-selection", "clipboard", "-o"}},
		{name: "xsel", copy: []string{"xsel", "--clipboard", "--input"}, paste: []string{"xsel", "--clipboard", "--output"}},
	},
}

// findTool returns the first installed tool for goos.
func findTool(goos string, lookPath func(string) (string, error)) (tool, error) {
	for _, t := range tools[goos] {
		if _, err := lookPath(t.name); err == nil {
			return t, nil
		}
	}
	return tool{}, ErrClipboardUnavailable
}

// IsAvailable reports whether a clipboard tool is installed.
func IsAvailable() bool {
	_, err := findTool(runtime.GOOS, exec.LookPath)
	return err == nil
}

// Copy writes text to the system clipboard.
func Copy(text string) error {
	t, err := findTool(runtime.GOOS, exec.LookPath)
	if err != nil {
		return err
	}
	cmd := exec.Command(t.copy[0], t.copy[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", t.name, err)
	}
	return nil
}

// Paste returns the clipboard's text content.
func Paste() (string, error) {
	t, err := findTool(runtime.GOOS, exec.LookPath)
	if err != nil {
		return "", err
	}
	out, err := exec.Command(t.paste[0], t.paste[1:]...).Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", t.name, err)
	}
	return string(out), nil
}
