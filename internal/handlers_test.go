package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Backend:      BackendGemini,
		Model:        "fake-model",
		GeminiAPIKey: "test-key",
		OutputDir:    t.TempDir(),
		TempDir:      t.TempDir(),
		Retries:      3,
		Quiet:        true,
	}
}

func newTestServer(t *testing.T, config *Config, extractor PlaylistExtractor, backend Backend) http.Handler {
	t.Helper()
	app := NewApp(config,
		WithExtractor(extractor),
		WithBackend(backend),
		WithSummarizer(newTestSummarizer(backend, &sleepRecorder{})),
	)
	return NewServer(app).Handler()
}

func performRequest(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestNonPostRequestsAreRejected(t *testing.T) {
	handler := newTestServer(t, testConfig(t), &fakeExtractor{}, replyWith("x"))

	for _, path := range []string{"/api/playlist/to-file/", "/api/playlist/as-json/", "/api/summarize/video/", "/api/summarize/playlist/"} {
		t.Run(path, func(t *testing.T) {
			w := performRequest(handler, http.MethodGet, path, "")

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, "Only POST method is allowed", decodeBody(t, w)["error"])
		})
	}
}

func TestInvalidJSONIsRejected(t *testing.T) {
	handler := newTestServer(t, testConfig(t), &fakeExtractor{}, replyWith("x"))

	for _, body := range []string{"", "{not json", "[1,2"} {
		w := performRequest(handler, http.MethodPost, "/api/summarize/video/", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid JSON in request body", decodeBody(t, w)["error"])
	}
}

func TestMissingParametersAreRejected(t *testing.T) {
	handler := newTestServer(t, testConfig(t), &fakeExtractor{}, replyWith("x"))

	tests := []struct {
		path string
		want string
	}{
		{path: "/api/playlist/to-file/", want: "Missing playlist_url parameter"},
		{path: "/api/playlist/as-json/", want: "Missing playlist_url parameter"},
		{path: "/api/summarize/playlist/", want: "Missing playlist_url parameter"},
		{path: "/api/summarize/video/", want: "Missing video_url or video_id parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := performRequest(handler, http.MethodPost, tt.path, `{}`)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decodeBody(t, w)["error"])
		})
	}
}

func TestPlaylistToFile(t *testing.T) {
	config := testConfig(t)
	handler := newTestServer(t, config, &fakeExtractor{videos: threeVideos()}, replyWith("x"))

	w := performRequest(handler, http.MethodPost, "/api/playlist/to-file/", `{"playlist_url":"`+testPlaylistURL+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(3), body["video_count"])

	wantPath := filepath.Join(config.OutputDir, "playlist_files", "playlist_PLtest.txt")
	assert.Equal(t, wantPath, body["file_path"])

	content, err := os.ReadFile(wantPath)
	require.NoError(t, err)
	assert.Equal(t, "First - https://www.youtube.com/watch?v=aaaaaaaaaaa\n"+
		"Second - https://www.youtube.com/watch?v=bbbbbbbbbbb\n"+
		"Third - https://www.youtube.com/watch?v=ccccccccccc\n", string(content))
}

func TestPlaylistAsJSON(t *testing.T) {
	handler := newTestServer(t, testConfig(t), &fakeExtractor{videos: threeVideos()}, replyWith("x"))

	w := performRequest(handler, http.MethodPost, "/api/playlist/as-json/", `{"playlist_url":"`+testPlaylistURL+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body playlistJSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 3, body.VideoCount)
	assert.Equal(t, threeVideos(), body.Videos)
}

func TestPlaylistExtractionFailureIsClientError(t *testing.T) {
	extractor := &fakeExtractor{err: &ExternalToolError{Stderr: "ERROR: This playlist does not exist"}}
	handler := newTestServer(t, testConfig(t), extractor, replyWith("x"))

	w := performRequest(handler, http.MethodPost, "/api/playlist/as-json/", `{"playlist_url":"`+testPlaylistURL+`"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "yt-dlp error: ERROR: This playlist does not exist", decodeBody(t, w)["error"])
}

func TestUnexpectedErrorsAreInternal(t *testing.T) {
	config := testConfig(t)
	// A regular file where a directory is needed makes the write fail
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	config.OutputDir = blocker

	handler := newTestServer(t, config, &fakeExtractor{videos: threeVideos()}, replyWith("x"))

	w := performRequest(handler, http.MethodPost, "/api/playlist/to-file/", `{"playlist_url":"`+testPlaylistURL+`"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["error"])
}

func TestSummarizeVideoWithoutSave(t *testing.T) {
	config := testConfig(t)
	handler := newTestServer(t, config, &fakeExtractor{}, structuredReply(""))

	w := performRequest(handler, http.MethodPost, "/api/summarize/video/", `{"video_url":"https://youtu.be/dQw4w9WgXcQ","style":"short"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "dQw4w9WgXcQ", body["video_id"])
	assert.Equal(t, "short", body["style"])
	assert.Equal(t, "words of https://www.youtube.com/watch?v=dQw4w9WgXcQ", body["transcript"])
	assert.Equal(t, "summary of https://www.youtube.com/watch?v=dQw4w9WgXcQ", body["summary"])
	assert.NotContains(t, body, "file_path")

	assert.NoDirExists(t, config.SummaryFilesDir())
}

func TestSummarizeVideoWithSave(t *testing.T) {
	config := testConfig(t)
	handler := newTestServer(t, config, &fakeExtractor{}, structuredReply(""))

	w := performRequest(handler, http.MethodPost, "/api/summarize/video/", `{"video_id":"dQw4w9WgXcQ","style":"academic","save_to_file":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	wantPath := filepath.Join(config.OutputDir, "summary_files", "summary_dQw4w9WgXcQ_academic.txt")
	assert.Equal(t, wantPath, decodeBody(t, w)["file_path"])

	content, err := os.ReadFile(wantPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "Title: dQw4w9WgXcQ\n\nStyle: academic\n\nTranscript:\n\n"))
}

func TestSummarizeVideoErrors(t *testing.T) {
	t.Run("bad video reference", func(t *testing.T) {
		backend := replyWith("x")
		handler := newTestServer(t, testConfig(t), &fakeExtractor{}, backend)

		w := performRequest(handler, http.MethodPost, "/api/summarize/video/", `{"video_url":"https://example.com/clip"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, backend.calls())
	})

	t.Run("missing API key", func(t *testing.T) {
		handler := newTestServer(t, testConfig(t), &fakeExtractor{}, failWith(&ConfigurationError{Msg: "Gemini API key not configured"}))

		w := performRequest(handler, http.MethodPost, "/api/summarize/video/", `{"video_id":"dQw4w9WgXcQ"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Gemini API key not configured", decodeBody(t, w)["error"])
	})

	t.Run("backend exhausted", func(t *testing.T) {
		handler := newTestServer(t, testConfig(t), &fakeExtractor{}, failWith(errBackendDown))

		w := performRequest(handler, http.MethodPost, "/api/summarize/video/", `{"video_id":"dQw4w9WgXcQ"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Failed after 3 attempts: backend unavailable", decodeBody(t, w)["error"])
	})
}

func TestTestConnection(t *testing.T) {
	t.Run("success over GET and POST", func(t *testing.T) {
		handler := newTestServer(t, testConfig(t), &fakeExtractor{}, replyWith("I can read this."))

		for _, method := range []string{http.MethodGet, http.MethodPost} {
			w := performRequest(handler, method, "/api/summarize/test-connection/", "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			body := decodeBody(t, w)
			assert.Equal(t, "success", body["status"])
			assert.Equal(t, "API connection successful", body["message"])
			assert.Equal(t, "I can read this.", body["response_preview"])
			assert.Equal(t, "fake-model", body["model"])
		}
	})

	t.Run("missing API key", func(t *testing.T) {
		handler := newTestServer(t, testConfig(t), &fakeExtractor{}, failWith(&ConfigurationError{Msg: "no key"}))

		w := performRequest(handler, http.MethodGet, "/api/summarize/test-connection/", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "no key", body["message"])
	})
}

func TestSummarizePlaylist(t *testing.T) {
	config := testConfig(t)
	handler := newTestServer(t, config, &fakeExtractor{videos: threeVideos()}, structuredReply("bbbbbbbbbbb"))

	w := performRequest(handler, http.MethodPost, "/api/summarize/playlist/", `{"playlist_url":"`+testPlaylistURL+`","style":"short"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Success      bool                 `json:"success"`
		PlaylistInfo PlaylistInfo         `json:"playlist_info"`
		Summaries    []BatchManifestEntry `json:"summaries"`
		CombinedFile string               `json:"combined_file"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Equal(t, 3, body.PlaylistInfo.VideoCount)
	assert.Equal(t, 2, body.PlaylistInfo.Succeeded)
	assert.Equal(t, 1, body.PlaylistInfo.Failed)
	require.Len(t, body.Summaries, 3)
	assert.False(t, body.Summaries[1].Success)
	assert.NotEmpty(t, body.Summaries[1].Error)
	assert.Equal(t, filepath.Join(config.SummaryFilesDir(), "PLtest", "playlist_PLtest_short_combined.txt"), body.CombinedFile)
	assert.FileExists(t, body.CombinedFile)
}

func TestHealthzAndRequestID(t *testing.T) {
	handler := newTestServer(t, testConfig(t), &fakeExtractor{}, replyWith("x"))

	w := performRequest(handler, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	handler := newTestServer(t, testConfig(t), &fakeExtractor{}, replyWith("x"))

	w := performRequest(handler, http.MethodPost, "/api/nope/", "{}")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
