package internal

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// GeminiBackend sends prompts to the Gemini API together with the YouTube URL
// as a file-data part, so the model can watch the video itself.
type GeminiBackend struct {
	apiKey string
	model  string

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiBackend creates a backend with lazy client initialization
func NewGeminiBackend(apiKey, model string) *GeminiBackend {
	return &GeminiBackend{apiKey: apiKey, model: model}
}

func (b *GeminiBackend) ensureClient(ctx context.Context) (*genai.Client, error) {
	if err := ValidateAPIKey(BackendGemini, b.apiKey); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client != nil {
		return b.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  b.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	b.client = client
	return client, nil
}

// Generate implements Backend
func (b *GeminiBackend) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	client, err := b.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	parts := []*genai.Part{}
	if req.VideoURL != "" {
		parts = append(parts, &genai.Part{FileData: &genai.FileData{
			FileURI:  req.VideoURL,
			MIMEType: "video/*",
		}})
	}
	parts = append(parts, &genai.Part{Text: req.Prompt})

	contents := []*genai.Content{{Parts: parts, Role: "user"}}

	resp, err := client.Models.GenerateContent(ctx, b.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	return resp.Text(), nil
}

// Model implements Backend
func (b *GeminiBackend) Model() string {
	return b.model
}
