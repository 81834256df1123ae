package internal

import (
	"context"
	"fmt"
	"sync"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// GenerateRequest is a single text-in/text-out call to a backend
type GenerateRequest struct {
	Prompt   string
	VideoURL string
}

// Backend is a remote generative-AI service
type Backend interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Model() string
}

// OpenAIClientInterface defines the interface for OpenAI client operations
type OpenAIClientInterface interface {
	CreateChatCompletion(ctx context.Context, model, prompt string) (string, error)
}

// OpenAIClient wraps the official OpenAI Go SDK
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: &client}
}

// CreateChatCompletion implements the chat completion method
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// OpenAIBackend sends prompts to OpenAI chat completions.
// The video is referenced by URL inside the prompt text.
type OpenAIBackend struct {
	mu     sync.Mutex
	client OpenAIClientInterface
	model  string
	apiKey string
}

// NewOpenAIBackend creates a backend with lazy client initialization
func NewOpenAIBackend(apiKey, model string) *OpenAIBackend {
	return &OpenAIBackend{apiKey: apiKey, model: model}
}

// NewOpenAIBackendWithClient creates a backend around an existing client
func NewOpenAIBackendWithClient(client OpenAIClientInterface, model string) *OpenAIBackend {
	return &OpenAIBackend{client: client, model: model}
}

func (b *OpenAIBackend) ensureClient() (OpenAIClientInterface, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client != nil {
		return b.client, nil
	}
	if err := ValidateAPIKey(BackendOpenAI, b.apiKey); err != nil {
		return nil, err
	}
	b.client = NewOpenAIClient(b.apiKey)
	return b.client, nil
}

// Generate implements Backend
func (b *OpenAIBackend) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	client, err := b.ensureClient()
	if err != nil {
		return "", err
	}
	content, err := client.CreateChatCompletion(ctx, b.model, req.Prompt)
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}
	return content, nil
}

// Model implements Backend
func (b *OpenAIBackend) Model() string {
	return b.model
}

// ValidateAPIKey checks that a backend credential is set and returns a standardized error if not
func ValidateAPIKey(backend, apiKey string) error {
	if apiKey != "" {
		return nil
	}
	switch backend {
	case BackendOpenAI:
		return &ConfigurationError{Msg: "OpenAI API key not configured - set it in config.toml or OPENAI_API_KEY environment variable"}
	case BackendGemini:
		return &ConfigurationError{Msg: "Gemini API key not configured - set it in config.toml or GEMINI_API_KEY environment variable"}
	default:
		return &ConfigurationError{Msg: fmt.Sprintf("%s API key not configured", backend)}
	}
}

// NewBackend builds the backend selected in cfg
func NewBackend(cfg SummarizerConfig) (Backend, error) {
	switch cfg.Backend {
	case BackendOpenAI:
		return NewOpenAIBackend(cfg.APIKey, cfg.Model), nil
	case BackendGemini:
		return NewGeminiBackend(cfg.APIKey, cfg.Model), nil
	default:
		return nil, &ConfigurationError{Msg: fmt.Sprintf("unsupported backend: %s", cfg.Backend)}
	}
}
