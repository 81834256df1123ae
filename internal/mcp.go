package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App, version string) *MCPServer {
	mcpServer := server.NewMCPServer(
		"tldp-server",
		version,
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s
}

func styleOption() mcp.PropertyOption {
	return mcp.Enum(
		string(StyleDetailed),
		string(StyleShort),
		string(StyleAcademic),
		string(StyleDescriptive),
		string(StyleTechnical),
	)
}

func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("extract_playlist",
		mcp.WithDescription("List every video of a YouTube playlist as title, id and url. Fast and free: only yt-dlp is used, no model is called."),
		mcp.WithString("playlist_url",
			mcp.Description("YouTube playlist URL"),
			mcp.Required(),
		),
	), s.handleExtractPlaylist)

	s.mcpServer.AddTool(mcp.NewTool("summarize_video",
		mcp.WithDescription("Produce a transcript and a summary of a single YouTube video with the configured model backend (PAID: one model call, more when retries are needed)."),
		mcp.WithString("video_url",
			mcp.Description("YouTube video URL or 11-character video id"),
			mcp.Required(),
		),
		mcp.WithString("style",
			mcp.Description("Summary style"),
			mcp.DefaultString(string(DefaultStyle)),
			styleOption(),
		),
		mcp.WithBoolean("save_to_file",
			mcp.Description("Also write the summary to the output directory"),
			mcp.DefaultBool(false),
		),
	), s.handleSummarizeVideo)

	s.mcpServer.AddTool(mcp.NewTool("summarize_playlist",
		mcp.WithDescription("Summarize every video of a YouTube playlist into one combined file (PAID: at least one model call per video). Always ask the user for confirmation first."),
		mcp.WithString("playlist_url",
			mcp.Description("YouTube playlist URL"),
			mcp.Required(),
		),
		mcp.WithString("style",
			mcp.Description("Summary style"),
			mcp.DefaultString(string(DefaultStyle)),
			styleOption(),
		),
		mcp.WithBoolean("save_to_file",
			mcp.Description("Also write one file per video next to the combined file"),
			mcp.DefaultBool(false),
		),
	), s.handleSummarizePlaylist)

	s.mcpServer.AddTool(mcp.NewTool("test_connection",
		mcp.WithDescription("Check that the configured model backend is reachable with the configured API key."),
	), s.handleTestConnection)
}

func (s *MCPServer) handleExtractPlaylist(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	playlistURL, err := request.RequireString("playlist_url")
	if err != nil {
		return mcp.NewToolResultError("playlist_url parameter is required and must be a string"), nil
	}

	videos, err := s.app.ExtractPlaylist(ctx, playlistURL)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("playlist extraction failed", err), nil
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Videos: %d\n\n", len(videos)))
	for i, v := range videos {
		buf.WriteString(fmt.Sprintf("%d. %s\n   id: %s\n   url: %s\n", i+1, v.Title, v.ID, v.URL))
	}

	return mcp.NewToolResultText(buf.String()), nil
}

func (s *MCPServer) handleSummarizeVideo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	videoURL, err := request.RequireString("video_url")
	if err != nil {
		return mcp.NewToolResultError("video_url parameter is required and must be a string"), nil
	}
	style := request.GetString("style", string(DefaultStyle))
	save := request.GetBool("save_to_file", false)

	result, filePath, err := s.app.SummarizeVideo(ctx, videoURL, style, save)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("summarization failed", err), nil
	}

	text := FormatSummary(result)
	if filePath != "" {
		text += fmt.Sprintf("\nSaved to: %s\n", filePath)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *MCPServer) handleSummarizePlaylist(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	playlistURL, err := request.RequireString("playlist_url")
	if err != nil {
		return mcp.NewToolResultError("playlist_url parameter is required and must be a string"), nil
	}
	style := request.GetString("style", string(DefaultStyle))
	save := request.GetBool("save_to_file", false)

	result, err := s.app.SummarizePlaylist(ctx, playlistURL, style, save, func(index, total int, entry BatchManifestEntry) {
		slog.Info("mcp batch progress", "index", index, "total", total, "video", entry.VideoID, "success", entry.Success)
	})
	if err != nil {
		return mcp.NewToolResultErrorFromErr("playlist summarization failed", err), nil
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (s *MCPServer) handleTestConnection(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.app.TestConnection(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("connection test failed", err), nil
	}

	text := fmt.Sprintf("%s: %s\nModel: %s\nResponse: %s\n", result.Status, result.Message, result.Model, result.ResponsePreview)
	return mcp.NewToolResultText(text), nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		go func() {
			<-ctx.Done()
			_ = httpServer.Shutdown(context.Background())
		}()
		slog.Info("mcp server listening", "transport", transport, "addr", addr)
		return ignoreServerClosed(httpServer.Start(addr))
	}

	return server.ServeStdio(s.mcpServer)
}

// ignoreServerClosed treats the error from a requested shutdown as a clean exit
func ignoreServerClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
