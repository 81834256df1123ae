package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/trace"
)

// spanContextHandler adds OpenTelemetry trace and span IDs to records logged with a traced context
type spanContextHandler struct {
	slog.Handler
}

func (h *spanContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if s := trace.SpanContextFromContext(ctx); s.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", s.TraceID().String()),
			slog.String("span_id", s.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, record)
}

func (h *spanContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &spanContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *spanContextHandler) WithGroup(name string) slog.Handler {
	return &spanContextHandler{Handler: h.Handler.WithGroup(name)}
}

// NewLogger builds a logger writing to w in the configured format
func NewLogger(config *Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if config.Verbose {
		level = slog.LevelDebug
	} else if config.Quiet {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if config.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(&spanContextHandler{Handler: handler})
}

// SetupLogging installs the default slog logger writing to w
func SetupLogging(config *Config, w io.Writer) {
	slog.SetDefault(NewLogger(config, w))
}

// SetupMCPLogging routes logs to $XDG_CACHE_HOME/tldp/mcp.log, since stdout carries the MCP protocol.
// With MCP logging disabled all output is discarded.
func SetupMCPLogging(config *Config) error {
	if !config.MCPLogEnabled {
		SetupLogging(config, io.Discard)
		return nil
	}

	if err := os.MkdirAll(config.CacheDir, 0755); err != nil {
		SetupLogging(config, io.Discard)
		return fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(config.CacheDir, "mcp.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		SetupLogging(config, io.Discard)
		return fmt.Errorf("opening log file: %w", err)
	}

	SetupLogging(config, logFile)
	return nil
}
