package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// CleanupTempDir removes the yt-dlp scratch directory and anything left in it
func CleanupTempDir(tempDir string) error {
	if tempDir == "" {
		return nil
	}
	entries, err := os.ReadDir(tempDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading temp directory: %w", err)
	}
	if len(entries) > 0 {
		slog.Debug("removing leftover temp files", "dir", tempDir, "count", len(entries))
	}
	if err := os.RemoveAll(tempDir); err != nil {
		return fmt.Errorf("removing temp directory: %w", err)
	}
	return nil
}

// IsTerminal reports whether stdout is attached to a terminal
func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// wrapWidth leaves a small margin inside the terminal, 80 columns when it cannot be measured
func wrapWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	switch {
	case err != nil || width <= 0:
		return 80
	case width > 10:
		return width - 4
	default:
		return width
	}
}

// RenderMarkdown renders a formatted summary for the terminal
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth()),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !errors.Is(err, fs.ErrNotExist)
}

// EnsureDirs creates every directory that is missing
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// cleanupFiles removes files, ignoring ones that are already gone
func cleanupFiles(files ...string) {
	for _, file := range files {
		if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to remove file", "path", file, "error", err)
		}
	}
}
