package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

var (
	videoIDPattern = regexp.MustCompile(`(?:youtu\.be/|youtube\.com/(?:watch\?(?:[^#]*&)?v=|embed/|v/))([A-Za-z0-9_-]{11})`)
	bareIDPattern  = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ExtractVideoID returns the 11-character video ID from a YouTube URL or a bare ID
func ExtractVideoID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if m := videoIDPattern.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	if bareIDPattern.MatchString(input) {
		return input, nil
	}
	return "", &MalformedRequestError{Msg: fmt.Sprintf("could not extract video ID from %q", input)}
}

// CanonicalVideoURL returns the watch URL for a video ID
func CanonicalVideoURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Summarizer asks a Backend for transcripts and summaries of single videos
type Summarizer struct {
	backend   Backend
	prompts   *PromptManager
	retries   int
	retryStep time.Duration
	timeout   time.Duration
	sleep     SleepFunc
}

// SummarizerOption customizes Summarizer creation
type SummarizerOption func(*Summarizer)

// WithSleep replaces the wait used between attempts
func WithSleep(sleep SleepFunc) SummarizerOption {
	return func(s *Summarizer) {
		s.sleep = sleep
	}
}

// NewSummarizer creates a summarizer around a backend
func NewSummarizer(cfg SummarizerConfig, backend Backend, prompts *PromptManager, options ...SummarizerOption) *Summarizer {
	if prompts == nil {
		prompts = NewPromptManager("", "")
	}
	s := &Summarizer{
		backend:   backend,
		prompts:   prompts,
		retries:   max(cfg.Retries, 1),
		retryStep: cfg.RetryStep,
		timeout:   cfg.Timeout,
		sleep:     sleepContext,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Model returns the backend model name
func (s *Summarizer) Model() string {
	return s.backend.Model()
}

// Summarize runs one strategy for a video URL or ID
func (s *Summarizer) Summarize(ctx context.Context, videoInput, style string, strategy SummaryStrategy) (*SummaryResult, error) {
	videoID, err := ExtractVideoID(videoInput)
	if err != nil {
		return nil, err
	}
	videoURL := CanonicalVideoURL(videoID)
	st := ParseStyle(style)

	prompt, err := s.prompts.CreatePrompt(strategy, PromptData{
		VideoURL:    videoURL,
		VideoID:     videoID,
		Style:       st.String(),
		Instruction: st.Instruction(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating prompt: %w", err)
	}

	raw, err := s.generate(ctx, GenerateRequest{Prompt: prompt, VideoURL: videoURL})
	if err != nil {
		return nil, err
	}

	result := &SummaryResult{
		VideoID:     videoID,
		Style:       st,
		RawResponse: raw,
		Strategy:    strategy,
	}
	if strategy == StrategyStructured {
		result.Transcript, result.Summary = ParseStructuredResponse(raw)
	} else {
		result.Summary = raw
	}
	return result, nil
}

// SummarizeWithFallback tries each strategy in order and returns the first success.
// With no strategies given, DefaultStrategies is used.
func (s *Summarizer) SummarizeWithFallback(ctx context.Context, videoInput, style string, strategies ...SummaryStrategy) (*SummaryResult, error) {
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}

	var lastErr error
	for _, strategy := range strategies {
		result, err := s.Summarize(ctx, videoInput, style, strategy)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Falling back cannot fix these
		var cfgErr *ConfigurationError
		var reqErr *MalformedRequestError
		if errors.As(err, &cfgErr) || errors.As(err, &reqErr) || ctx.Err() != nil {
			return nil, err
		}
		slog.WarnContext(ctx, "summary strategy failed", "video", videoInput, "strategy", strategy.String(), "error", err)
	}
	return nil, lastErr
}

// generate calls the backend with linear backoff between attempts
func (s *Summarizer) generate(ctx context.Context, req GenerateRequest) (string, error) {
	var lastErr error
	for attempt := range s.retries {
		text, err := s.callBackend(ctx, req)
		if err == nil {
			return text, nil
		}

		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return "", err
		}
		lastErr = err
		slog.DebugContext(ctx, "backend attempt failed", "attempt", attempt+1, "of", s.retries, "error", err)

		if attempt == s.retries-1 {
			break
		}
		if err := s.sleep(ctx, time.Duration(attempt+1)*s.retryStep); err != nil {
			return "", &BackendError{Err: err}
		}
	}
	return "", &BackendError{Attempts: s.retries, Err: lastErr}
}

func (s *Summarizer) callBackend(ctx context.Context, req GenerateRequest) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.backend.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// ParseStructuredResponse separates the TRANSCRIPT and SUMMARY sections of a response.
// Responses missing either marker, or without a literal SUMMARY marker, are treated as summary only.
func ParseStructuredResponse(text string) (transcript, summary string) {
	upper := strings.ToUpper(text)
	if !strings.Contains(upper, "TRANSCRIPT") || !strings.Contains(upper, "SUMMARY") {
		return "", strings.TrimSpace(text)
	}

	before, after, found := strings.Cut(text, "SUMMARY")
	if !found {
		return "", strings.TrimSpace(text)
	}

	if _, rest, ok := strings.Cut(before, "TRANSCRIPT"); ok {
		before = rest
	}
	transcript = strings.TrimRight(stripLabelLine(before), " \t\r\n*#")
	summary = strings.TrimSpace(stripLabelLine(after))
	return strings.TrimSpace(transcript), summary
}

// stripLabelLine drops what is left of a section label (":", "**", "##") on its first line
func stripLabelLine(s string) string {
	line, rest, found := strings.Cut(s, "\n")
	if strings.Trim(line, ":*# \t\r") == "" {
		return rest
	}
	line = strings.TrimLeft(line, ":*# \t")
	if !found {
		return line
	}
	return line + "\n" + rest
}

// PingResult is the outcome of a backend connectivity test
type PingResult struct {
	Status          string `json:"status"`
	Message         string `json:"message"`
	ResponsePreview string `json:"response_preview"`
	Model           string `json:"model"`
}

// Ping sends a single short request to the backend without retries
func (s *Summarizer) Ping(ctx context.Context) (*PingResult, error) {
	text, err := s.callBackend(ctx, GenerateRequest{
		Prompt: "Reply with one short sentence confirming you can read this message.",
	})
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return nil, err
		}
		return nil, &BackendError{Err: fmt.Errorf("API connection failed: %w", err)}
	}

	return &PingResult{
		Status:          "success",
		Message:         "API connection successful",
		ResponsePreview: Preview(text, 100),
		Model:           s.backend.Model(),
	}, nil
}

// Preview truncates s to n characters, appending "..." when cut
func Preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
