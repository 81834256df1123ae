package internal

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

type playlistRequest struct {
	PlaylistURL string `json:"playlist_url"`
}

type videoRequest struct {
	VideoURL   string `json:"video_url"`
	VideoID    string `json:"video_id"`
	Style      string `json:"style"`
	SaveToFile bool   `json:"save_to_file"`
}

type batchRequest struct {
	PlaylistURL string `json:"playlist_url"`
	Style       string `json:"style"`
	SaveToFile  bool   `json:"save_to_file"`
}

type playlistFileResponse struct {
	Success    bool   `json:"success"`
	FilePath   string `json:"file_path"`
	VideoCount int    `json:"video_count"`
}

type playlistJSONResponse struct {
	Success    bool          `json:"success"`
	Videos     []VideoRecord `json:"videos"`
	VideoCount int           `json:"video_count"`
}

type videoSummaryResponse struct {
	Success    bool   `json:"success"`
	VideoID    string `json:"video_id"`
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`
	Style      Style  `json:"style"`
	FilePath   string `json:"file_path,omitempty"`
}

type batchResponse struct {
	Success bool `json:"success"`
	*BatchResult
}

// bindJSON decodes the body; it writes the 400 response itself and reports false on failure
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return false
	}
	return true
}

func missingParam(c *gin.Context, name string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Missing " + name + " parameter"})
}

// respondError maps known error categories to 400 and everything else to 500
func respondError(c *gin.Context, err error) {
	if IsClientError(err) {
		slog.WarnContext(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slog.ErrorContext(c.Request.Context(), "unexpected error",
		"path", c.Request.URL.Path,
		"error", err,
		"stack", string(debug.Stack()),
		"request_id", c.GetString("request_id"),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (s *Server) handlePlaylistToFile(c *gin.Context) {
	var req playlistRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.PlaylistURL == "" {
		missingParam(c, "playlist_url")
		return
	}

	filePath, videos, err := s.app.SavePlaylist(c.Request.Context(), req.PlaylistURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, playlistFileResponse{
		Success:    true,
		FilePath:   filePath,
		VideoCount: len(videos),
	})
}

func (s *Server) handlePlaylistAsJSON(c *gin.Context) {
	var req playlistRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.PlaylistURL == "" {
		missingParam(c, "playlist_url")
		return
	}

	videos, err := s.app.ExtractPlaylist(c.Request.Context(), req.PlaylistURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, playlistJSONResponse{
		Success:    true,
		Videos:     videos,
		VideoCount: len(videos),
	})
}

func (s *Server) handleSummarizeVideo(c *gin.Context) {
	var req videoRequest
	if !bindJSON(c, &req) {
		return
	}

	input := req.VideoURL
	if input == "" {
		input = req.VideoID
	}
	if input == "" {
		missingParam(c, "video_url or video_id")
		return
	}

	result, filePath, err := s.app.SummarizeVideo(c.Request.Context(), input, req.Style, req.SaveToFile)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, videoSummaryResponse{
		Success:    true,
		VideoID:    result.VideoID,
		Transcript: result.Transcript,
		Summary:    result.Summary,
		Style:      result.Style,
		FilePath:   filePath,
	})
}

func (s *Server) handleTestConnection(c *gin.Context) {
	result, err := s.app.TestConnection(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if IsClientError(err) {
			status = http.StatusBadRequest
		}
		slog.WarnContext(c.Request.Context(), "connection test failed", "error", err)
		c.JSON(status, PingResult{
			Status:  "error",
			Message: err.Error(),
			Model:   s.app.backend.Model(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleSummarizePlaylist(c *gin.Context) {
	var req batchRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.PlaylistURL == "" {
		missingParam(c, "playlist_url")
		return
	}

	result, err := s.app.SummarizePlaylist(c.Request.Context(), req.PlaylistURL, req.Style, req.SaveToFile, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, batchResponse{Success: true, BatchResult: result})
}
