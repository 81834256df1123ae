package internal

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
)

// PlaylistExtractor lists the videos of a playlist
type PlaylistExtractor interface {
	Extract(ctx context.Context, playlistURL string) ([]VideoRecord, error)
}

// VideoSummarizer summarizes one video with strategy fallback
type VideoSummarizer interface {
	SummarizeWithFallback(ctx context.Context, videoInput, style string, strategies ...SummaryStrategy) (*SummaryResult, error)
}

// BatchObserver is told about every manifest entry as soon as it is recorded
type BatchObserver func(index, total int, entry BatchManifestEntry)

// BatchOrchestrator summarizes every video of a playlist, one after another
type BatchOrchestrator struct {
	extractor  PlaylistExtractor
	summarizer VideoSummarizer
	outputDir  string
	observer   BatchObserver
}

// NewBatchOrchestrator creates an orchestrator writing under outputDir/<playlist_id>/
func NewBatchOrchestrator(extractor PlaylistExtractor, summarizer VideoSummarizer, outputDir string) *BatchOrchestrator {
	return &BatchOrchestrator{
		extractor:  extractor,
		summarizer: summarizer,
		outputDir:  outputDir,
	}
}

// WithObserver returns a copy of the orchestrator that reports progress to observer
func (b *BatchOrchestrator) WithObserver(observer BatchObserver) *BatchOrchestrator {
	clone := *b
	clone.observer = observer
	return &clone
}

// CombinedFilePath is the aggregate file for a playlist and style
func (b *BatchOrchestrator) CombinedFilePath(playlistID string, style Style) string {
	return filepath.Join(b.outputDir, playlistID, fmt.Sprintf("playlist_%s_%s_combined.txt", playlistID, style))
}

// VideoFilePath is the per-video file for a playlist, video and style
func (b *BatchOrchestrator) VideoFilePath(playlistID, videoID string, style Style) string {
	return filepath.Join(b.outputDir, playlistID, fmt.Sprintf("%s_%s.txt", videoID, style))
}

// RunBatch extracts the playlist and summarizes its videos in order.
// Per-video failures are recorded in the manifest; only extraction, combined-file
// and context errors abort the run.
func (b *BatchOrchestrator) RunBatch(ctx context.Context, playlistURL, style string, saveToFile bool) (result *BatchResult, err error) {
	videos, err := b.extractor.Extract(ctx, playlistURL)
	if err != nil {
		return nil, err
	}

	st := ParseStyle(style)
	playlistID := PlaylistIDFromURL(playlistURL)
	info := PlaylistInfo{
		URL:        playlistURL,
		ID:         playlistID,
		VideoCount: len(videos),
		Style:      st,
	}

	combined, err := CreateCombinedFile(b.CombinedFilePath(playlistID, st))
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := combined.Close(); closeErr != nil && err == nil {
			result, err = nil, closeErr
		}
	}()

	if err := combined.Header(info); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "batch started", "playlist", playlistID, "videos", len(videos), "style", st.String())

	entries := make([]BatchManifestEntry, 0, len(videos))
	for i, video := range videos {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("batch interrupted after %d of %d videos: %w", i, len(videos), ctx.Err())
		}

		entry, err := b.processVideo(ctx, combined, i+1, len(videos), playlistID, video, st, saveToFile)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
		if entry.Success {
			info.Succeeded++
		} else {
			info.Failed++
		}
		if b.observer != nil {
			b.observer(i+1, len(videos), entry)
		}
	}

	slog.InfoContext(ctx, "batch finished", "playlist", playlistID, "succeeded", info.Succeeded, "failed", info.Failed)

	return &BatchResult{
		PlaylistInfo: info,
		Summaries:    entries,
		CombinedFile: combined.Path(),
	}, nil
}

// processVideo summarizes one video. The returned error is reserved for combined-file failures.
func (b *BatchOrchestrator) processVideo(ctx context.Context, combined *CombinedWriter, index, total int, playlistID string, video VideoRecord, style Style, saveToFile bool) (BatchManifestEntry, error) {
	entry := BatchManifestEntry{
		VideoID:  video.ID,
		VideoURL: video.URL,
		Title:    video.Title,
	}

	summary, err := b.summarizer.SummarizeWithFallback(ctx, video.URL, style.String())
	if err == nil {
		summary.Title = video.Title
		if saveToFile {
			entry.FilePath, err = WriteSummary(b.VideoFilePath(playlistID, video.ID, style), summary)
		}
	}

	if err != nil {
		entry.Error = err.Error()
		entry.FilePath = ""
		slog.WarnContext(ctx, "video failed", "index", index, "video", video.ID, "error", err)
		return entry, combined.ErrorSection(index, total, entry)
	}

	entry.Success = true
	slog.DebugContext(ctx, "video summarized", "index", index, "video", video.ID, "strategy", summary.Strategy.String())
	return entry, combined.Section(index, total, entry, summary)
}
