package internal

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"time"
)

var errBackendDown = errors.New("backend unavailable")

// fakeBackend answers Generate with respond, recording every request
type fakeBackend struct {
	mu       sync.Mutex
	respond  func(call int, req GenerateRequest) (string, error)
	requests []GenerateRequest
}

func (f *fakeBackend) Generate(_ context.Context, req GenerateRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	call := len(f.requests)
	f.mu.Unlock()
	return f.respond(call, req)
}

func (f *fakeBackend) Model() string {
	return "fake-model"
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func replyWith(text string) *fakeBackend {
	return &fakeBackend{respond: func(int, GenerateRequest) (string, error) {
		return text, nil
	}}
}

func failWith(err error) *fakeBackend {
	return &fakeBackend{respond: func(int, GenerateRequest) (string, error) {
		return "", err
	}}
}

// sleepRecorder replaces real waits between attempts
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return nil
}

func testSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{
		Backend:   BackendGemini,
		Model:     "fake-model",
		APIKey:    "test-key",
		Retries:   3,
		RetryStep: 3 * time.Second,
	}
}

func newTestSummarizer(backend Backend, recorder *sleepRecorder) *Summarizer {
	return NewSummarizer(testSummarizerConfig(), backend, nil, WithSleep(recorder.sleep))
}

// fakeDumper writes canned yt-dlp output, or fails with stderr
type fakeDumper struct {
	output     string
	stderr     string
	err        error
	outputFile string
}

func (f *fakeDumper) DumpFlatPlaylist(_ context.Context, _, outputFile string) (string, error) {
	f.outputFile = outputFile
	if f.err != nil {
		return f.stderr, f.err
	}
	return "", os.WriteFile(outputFile, []byte(f.output), 0644)
}

// fakeExtractor returns a fixed playlist
type fakeExtractor struct {
	videos []VideoRecord
	err    error
}

func (f *fakeExtractor) Extract(context.Context, string) ([]VideoRecord, error) {
	return f.videos, f.err
}

func threeVideos() []VideoRecord {
	return []VideoRecord{
		{Title: "First", ID: "aaaaaaaaaaa", URL: "https://www.youtube.com/watch?v=aaaaaaaaaaa"},
		{Title: "Second", ID: "bbbbbbbbbbb", URL: "https://www.youtube.com/watch?v=bbbbbbbbbbb"},
		{Title: "Third", ID: "ccccccccccc", URL: "https://www.youtube.com/watch?v=ccccccccccc"},
	}
}

// structuredReply answers every prompt with both sections, unless the video URL contains failID
func structuredReply(failID string) *fakeBackend {
	return &fakeBackend{respond: func(_ int, req GenerateRequest) (string, error) {
		if failID != "" && strings.Contains(req.VideoURL, failID) {
			return "", errBackendDown
		}
		return "TRANSCRIPT:\nwords of " + req.VideoURL + "\n\nSUMMARY:\nsummary of " + req.VideoURL, nil
	}}
}
