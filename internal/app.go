package internal

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
)

// App holds the application state and dependencies
type App struct {
	extractor     PlaylistExtractor
	summarizer    *Summarizer
	backend       Backend
	promptManager *PromptManager
	config        *Config
	ui            UIManager
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) *App {
	app := &App{
		extractor:     NewExtractor(config.ExtractorConfig(), nil),
		promptManager: NewPromptManager(config.ConfigDir, config.Prompt),
		config:        config,
		ui:            NewUIManager(config.Verbose, config.Quiet),
	}

	backend, err := NewBackend(config.SummarizerConfig())
	if err != nil {
		backend = &unavailableBackend{err: err, model: config.Model}
	}
	app.backend = backend

	for _, option := range options {
		option(app)
	}

	if app.summarizer == nil {
		app.summarizer = NewSummarizer(config.SummarizerConfig(), app.backend, app.promptManager)
	}

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithExtractor sets a custom playlist extractor
func WithExtractor(extractor PlaylistExtractor) AppOption {
	return func(a *App) {
		a.extractor = extractor
	}
}

// WithBackend sets a custom summarization backend
func WithBackend(backend Backend) AppOption {
	return func(a *App) {
		a.backend = backend
	}
}

// WithSummarizer sets a fully configured summarizer
func WithSummarizer(summarizer *Summarizer) AppOption {
	return func(a *App) {
		a.summarizer = summarizer
	}
}

// WithUI sets a custom UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// SetPromptManager sets a new prompt manager and rebuilds the summarizer around it
func (app *App) SetPromptManager(pm *PromptManager) {
	app.promptManager = pm
	app.summarizer = NewSummarizer(app.config.SummarizerConfig(), app.backend, pm)
}

// Config returns the application configuration
func (app *App) Config() *Config {
	return app.config
}

// UI returns the terminal UI manager
func (app *App) UI() UIManager {
	return app.ui
}

// ExtractPlaylist lists the videos of a playlist
func (app *App) ExtractPlaylist(ctx context.Context, playlistURL string) ([]VideoRecord, error) {
	return app.extractor.Extract(ctx, playlistURL)
}

// SavePlaylist extracts a playlist and writes its video list to playlist_files/playlist_<id>.txt
func (app *App) SavePlaylist(ctx context.Context, playlistURL string) (string, []VideoRecord, error) {
	videos, err := app.extractor.Extract(ctx, playlistURL)
	if err != nil {
		return "", nil, err
	}

	playlistID := PlaylistIDFromURL(playlistURL)
	path := filepath.Join(app.config.PlaylistFilesDir(), fmt.Sprintf("playlist_%s.txt", playlistID))
	filePath, err := WriteVideoList(path, videos)
	if err != nil {
		return "", nil, err
	}

	slog.InfoContext(ctx, "playlist saved", "playlist", playlistID, "videos", len(videos), "path", filePath)
	return filePath, videos, nil
}

// SummarizeVideo summarizes one video, trying strategies in order.
// With saveToFile the summary is written to summary_files/summary_<id>_<style>.txt and its path returned.
func (app *App) SummarizeVideo(ctx context.Context, videoInput, style string, saveToFile bool, strategies ...SummaryStrategy) (*SummaryResult, string, error) {
	result, err := app.summarizer.SummarizeWithFallback(ctx, videoInput, style, strategies...)
	if err != nil {
		return nil, "", err
	}

	if !saveToFile {
		return result, "", nil
	}

	path := filepath.Join(app.config.SummaryFilesDir(), fmt.Sprintf("summary_%s_%s.txt", result.VideoID, result.Style))
	filePath, err := WriteSummary(path, result)
	if err != nil {
		return nil, "", err
	}
	return result, filePath, nil
}

// SummarizePlaylist runs a batch over every video in a playlist
func (app *App) SummarizePlaylist(ctx context.Context, playlistURL, style string, saveToFile bool, observer BatchObserver) (*BatchResult, error) {
	orchestrator := NewBatchOrchestrator(app.extractor, app.summarizer, app.config.SummaryFilesDir())
	if observer != nil {
		orchestrator = orchestrator.WithObserver(observer)
	}
	return orchestrator.RunBatch(ctx, playlistURL, style, saveToFile)
}

// TestConnection checks that the backend is reachable with the configured credential
func (app *App) TestConnection(ctx context.Context) (*PingResult, error) {
	return app.summarizer.Ping(ctx)
}

// unavailableBackend answers every call with the configuration error that prevented building a real backend
type unavailableBackend struct {
	err   error
	model string
}

func (b *unavailableBackend) Generate(context.Context, GenerateRequest) (string, error) {
	return "", b.err
}

func (b *unavailableBackend) Model() string {
	return b.model
}
