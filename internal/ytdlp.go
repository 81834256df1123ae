package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// PlaylistDumper writes a flat playlist listing (URL line, then title line, per video) to outputFile.
// On a failed run it returns the tool's stderr alongside the error.
type PlaylistDumper interface {
	DumpFlatPlaylist(ctx context.Context, playlistURL, outputFile string) (stderr string, err error)
}

// YtdlpDumper runs yt-dlp through go-ytdlp
type YtdlpDumper struct {
	binaryPath string
}

// NewYtdlpDumper creates a dumper; an empty binaryPath uses the managed or PATH install
func NewYtdlpDumper(binaryPath string) *YtdlpDumper {
	return &YtdlpDumper{binaryPath: binaryPath}
}

// DumpFlatPlaylist implements PlaylistDumper
func (d *YtdlpDumper) DumpFlatPlaylist(ctx context.Context, playlistURL, outputFile string) (string, error) {
	dl := ytdlp.New().
		FlatPlaylist().                      // Don't fetch each video page
		IgnoreErrors().                      // Skip unavailable entries
		PrintToFile("url,title", outputFile) // Two lines per video

	if d.binaryPath != "" {
		dl = dl.SetExecutable(d.binaryPath)
	}

	result, err := dl.Run(ctx, playlistURL)
	if err != nil {
		stderr := ""
		if result != nil {
			stderr = result.Stderr
		}
		return stderr, err
	}
	return "", nil
}

// Extractor lists the videos of a playlist
type Extractor struct {
	dumper  PlaylistDumper
	tempDir string
}

// NewExtractor creates an extractor. A nil dumper runs yt-dlp from cfg.BinaryPath.
func NewExtractor(cfg ExtractorConfig, dumper PlaylistDumper) *Extractor {
	if dumper == nil {
		dumper = NewYtdlpDumper(cfg.BinaryPath)
	}
	return &Extractor{dumper: dumper, tempDir: cfg.TempDir}
}

// Extract returns the playlist's videos in playlist order
func (e *Extractor) Extract(ctx context.Context, playlistURL string) ([]VideoRecord, error) {
	if e.tempDir != "" {
		if err := EnsureDirs(e.tempDir); err != nil {
			return nil, &ExternalToolError{Err: fmt.Errorf("creating temp directory: %w", err)}
		}
	}

	tempFile, err := os.CreateTemp(e.tempDir, "playlist-*.txt")
	if err != nil {
		return nil, &ExternalToolError{Err: fmt.Errorf("creating temp file: %w", err)}
	}
	tempPath := tempFile.Name()
	defer cleanupFiles(tempPath)
	if err := tempFile.Close(); err != nil {
		return nil, &ExternalToolError{Err: fmt.Errorf("closing temp file: %w", err)}
	}

	slog.DebugContext(ctx, "extracting playlist", "url", playlistURL, "output", tempPath)

	stderr, err := e.dumper.DumpFlatPlaylist(ctx, playlistURL, tempPath)
	if err != nil {
		if stderr == "" {
			stderr = err.Error()
		}
		return nil, &ExternalToolError{Stderr: stderr, Err: err}
	}

	content, err := os.ReadFile(tempPath)
	if err != nil {
		return nil, &ExternalToolError{Err: fmt.Errorf("reading yt-dlp output: %w", err)}
	}

	videos := ParsePlaylistOutput(string(content))
	slog.DebugContext(ctx, "playlist extracted", "url", playlistURL, "videos", len(videos))
	return videos, nil
}

// ParsePlaylistOutput turns alternating URL/title lines into records.
// A trailing URL without a title line is dropped.
func ParsePlaylistOutput(content string) []VideoRecord {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return []VideoRecord{}
	}

	lines := strings.Split(content, "\n")
	videos := make([]VideoRecord, 0, len(lines)/2)
	for i := 0; i+1 < len(lines); i += 2 {
		url := strings.TrimSpace(lines[i])
		title := strings.TrimSpace(lines[i+1])
		videos = append(videos, VideoRecord{
			Title: title,
			ID:    VideoIDFromURL(url),
			URL:   url,
		})
	}
	return videos
}

// VideoIDFromURL takes the v= query value, or the last path segment when there is none
func VideoIDFromURL(url string) string {
	if i := strings.LastIndex(url, "v="); i >= 0 {
		id, _, _ := strings.Cut(url[i+2:], "&")
		return id
	}
	return url[strings.LastIndex(url, "/")+1:]
}

// PlaylistIDFromURL takes the list= query value, or "playlist" when there is none
func PlaylistIDFromURL(playlistURL string) string {
	_, after, found := strings.Cut(playlistURL, "list=")
	if !found {
		return "playlist"
	}
	id, _, _ := strings.Cut(after, "&")
	if id == "" {
		return "playlist"
	}
	return id
}
