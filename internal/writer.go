package internal

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const sectionRule = "================================================================================"

// WriteVideoList writes one "<title> - <url>" line per video
func WriteVideoList(path string, videos []VideoRecord) (string, error) {
	if err := EnsureDirs(filepath.Dir(path)); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	var sb strings.Builder
	for _, video := range videos {
		sb.WriteString(fmt.Sprintf("%s - %s\n", video.Title, video.URL))
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("writing video list: %w", err)
	}
	return path, nil
}

// FormatSummary renders a summary as plain text: Title, Style, Transcript, Summary.
// Empty transcript or summary sections are left out.
func FormatSummary(result *SummaryResult) string {
	title := result.Title
	if title == "" {
		title = result.VideoID
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title: %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Style: %s\n\n", result.Style))
	if result.Transcript != "" {
		sb.WriteString("Transcript:\n\n")
		sb.WriteString(result.Transcript)
		sb.WriteString("\n\n")
	}
	if result.Summary != "" {
		sb.WriteString("Summary:\n\n")
		sb.WriteString(result.Summary)
		sb.WriteString("\n")
	}
	return sb.String()
}

// WriteSummary writes a formatted summary to path
func WriteSummary(path string, result *SummaryResult) (string, error) {
	if err := EnsureDirs(filepath.Dir(path)); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(FormatSummary(result)), 0644); err != nil {
		return "", fmt.Errorf("writing summary file: %w", err)
	}
	return path, nil
}

// CombinedWriter appends per-video sections to one aggregate file.
// Every section is flushed before the call returns.
type CombinedWriter struct {
	path string
	file *os.File
	w    *bufio.Writer
}

// CreateCombinedFile truncates or creates the combined file at path
func CreateCombinedFile(path string) (*CombinedWriter, error) {
	if err := EnsureDirs(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating combined file: %w", err)
	}
	return &CombinedWriter{path: path, file: file, w: bufio.NewWriter(file)}, nil
}

// Path returns the combined file location
func (c *CombinedWriter) Path() string {
	return c.path
}

// Header writes the playlist preamble
func (c *CombinedWriter) Header(info PlaylistInfo) error {
	fmt.Fprintf(c.w, "Playlist: %s\n", info.URL)
	fmt.Fprintf(c.w, "Playlist ID: %s\n", info.ID)
	fmt.Fprintf(c.w, "Style: %s\n", info.Style)
	fmt.Fprintf(c.w, "Videos: %d\n\n", info.VideoCount)
	return c.flush()
}

// Section writes a successful video summary
func (c *CombinedWriter) Section(index, total int, entry BatchManifestEntry, result *SummaryResult) error {
	c.sectionHeader(index, total, entry)
	if result.Transcript != "" {
		fmt.Fprintf(c.w, "Transcript:\n\n%s\n\n", result.Transcript)
	}
	if result.Summary != "" {
		fmt.Fprintf(c.w, "Summary:\n\n%s\n\n", result.Summary)
	}
	return c.flush()
}

// ErrorSection writes a failed video
func (c *CombinedWriter) ErrorSection(index, total int, entry BatchManifestEntry) error {
	c.sectionHeader(index, total, entry)
	fmt.Fprintf(c.w, "Error: %s\n\n", entry.Error)
	return c.flush()
}

func (c *CombinedWriter) sectionHeader(index, total int, entry BatchManifestEntry) {
	fmt.Fprintf(c.w, "%s\n", sectionRule)
	fmt.Fprintf(c.w, "Video %d/%d: %s\n", index, total, entry.Title)
	fmt.Fprintf(c.w, "URL: %s\n", entry.VideoURL)
	fmt.Fprintf(c.w, "Video ID: %s\n", entry.VideoID)
	fmt.Fprintf(c.w, "%s\n\n", sectionRule)
}

func (c *CombinedWriter) flush() error {
	if err := c.w.Flush(); err != nil {
		return fmt.Errorf("writing combined file: %w", err)
	}
	return nil
}

// Close flushes and closes the file; calling it again is a no-op
func (c *CombinedWriter) Close() error {
	if c.file == nil {
		return nil
	}
	flushErr := c.w.Flush()
	closeErr := c.file.Close()
	c.file = nil
	if flushErr != nil {
		return fmt.Errorf("flushing combined file: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing combined file: %w", closeErr)
	}
	return nil
}
