package internal

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/lrstanley/go-ytdlp"
	"github.com/spf13/viper"
)

// Config holds application settings
type Config struct {
	// User configurable settings
	Backend        string
	Model          string
	OpenAIAPIKey   string
	GeminiAPIKey   string
	YtdlpPath      string
	OutputDir      string
	Retries        int
	RetryStep      time.Duration
	SummaryTimeout time.Duration
	Addr           string
	Verbose        bool
	Quiet          bool
	LogFormat      string
	Prompt         string
	MCPLogEnabled  bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
	CacheDir  string
	TempDir   string
}

// SummarizerConfig is the explicit configuration handed to a Summarizer
type SummarizerConfig struct {
	Backend   string
	Model     string
	APIKey    string
	Retries   int
	RetryStep time.Duration
	Timeout   time.Duration
}

// ExtractorConfig is the explicit configuration handed to an Extractor
type ExtractorConfig struct {
	BinaryPath string
	TempDir    string
}

//go:embed config.toml prompt.txt prompt_simple.txt
var defaultFS embed.FS

const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

var defaultModels = map[string]string{
	BackendOpenAI: "gpt-4o-mini",
	BackendGemini: "gemini-2.0-flash",
}

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) error {
	filePath := filepath.Join(configDir, embedFilename)

	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default %s: %w", description, err)
	}

	slog.Info("created default file", "kind", description, "path", filePath)
	return nil
}

// EnsureDefaultConfig checks if a config file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// EnsureDefaultPrompts writes the structured and simple prompt templates
// to the XDG config directory if they are missing
func EnsureDefaultPrompts(configDir string) error {
	if err := ensureDefaultFile(configDir, "prompt.txt", "prompt template"); err != nil {
		return err
	}
	return ensureDefaultFile(configDir, "prompt_simple.txt", "simple prompt template")
}

// InitConfig initializes Viper and loads configuration
func InitConfig() *Config {
	configDir := filepath.Join(xdg.ConfigHome, "tldp")
	dataDir := filepath.Join(xdg.DataHome, "tldp")
	cacheDir := filepath.Join(xdg.CacheHome, "tldp")
	tempDir := filepath.Join(cacheDir, "tmp")

	v := viper.New()

	v.SetDefault("backend", BackendGemini)
	v.SetDefault("model", "")
	v.SetDefault("ytdlp_path", "")
	v.SetDefault("output_dir", dataDir)
	v.SetDefault("retries", 3)
	v.SetDefault("retry_step", 3*time.Second)
	v.SetDefault("summary_timeout", 5*time.Minute)
	v.SetDefault("addr", ":8000")
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("log_format", "") // text for the CLI, json for serve
	v.SetDefault("prompt", "") // if empty will use default prompt template
	v.SetDefault("mcp_log", false)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("TLDP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// API keys are also read from their conventional env vars
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY", "GOOGLE_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	return configFromViper(v, configDir, dataDir, cacheDir, tempDir)
}

func configFromViper(v *viper.Viper, configDir, dataDir, cacheDir, tempDir string) *Config {
	backend := strings.ToLower(v.GetString("backend"))
	model := v.GetString("model")
	if model == "" {
		model = defaultModels[backend]
	}

	return &Config{
		Backend:        backend,
		Model:          model,
		OpenAIAPIKey:   v.GetString("openai_api_key"),
		GeminiAPIKey:   v.GetString("gemini_api_key"),
		YtdlpPath:      v.GetString("ytdlp_path"),
		OutputDir:      v.GetString("output_dir"),
		Retries:        v.GetInt("retries"),
		RetryStep:      v.GetDuration("retry_step"),
		SummaryTimeout: v.GetDuration("summary_timeout"),
		Addr:           v.GetString("addr"),
		Verbose:        v.GetBool("verbose"),
		Quiet:          v.GetBool("quiet"),
		LogFormat:      v.GetString("log_format"),
		Prompt:         v.GetString("prompt"),
		MCPLogEnabled:  v.GetBool("mcp_log"),

		ConfigDir: configDir,
		DataDir:   dataDir,
		CacheDir:  cacheDir,
		TempDir:   tempDir,
	}
}

// SummarizerConfig derives the summarizer settings for the selected backend
func (c *Config) SummarizerConfig() SummarizerConfig {
	apiKey := c.GeminiAPIKey
	if c.Backend == BackendOpenAI {
		apiKey = c.OpenAIAPIKey
	}
	return SummarizerConfig{
		Backend:   c.Backend,
		Model:     c.Model,
		APIKey:    apiKey,
		Retries:   c.Retries,
		RetryStep: c.RetryStep,
		Timeout:   c.SummaryTimeout,
	}
}

// ExtractorConfig derives the yt-dlp settings
func (c *Config) ExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		BinaryPath: c.YtdlpPath,
		TempDir:    c.TempDir,
	}
}

// PlaylistFilesDir is where extracted video lists are written
func (c *Config) PlaylistFilesDir() string {
	return filepath.Join(c.OutputDir, "playlist_files")
}

// SummaryFilesDir is where summaries are written
func (c *Config) SummaryFilesDir() string {
	return filepath.Join(c.OutputDir, "summary_files")
}

// EnsureYtdlp resolves a yt-dlp binary when no explicit path is configured.
// A yt-dlp already on PATH is used as is, whatever its version.
func EnsureYtdlp(ctx context.Context, c *Config) error {
	if c.YtdlpPath != "" {
		return nil
	}
	if _, err := ytdlp.Install(ctx, &ytdlp.InstallOptions{AllowVersionMismatch: true}); err != nil {
		return fmt.Errorf("installing yt-dlp: %w", err)
	}
	return nil
}

// ValidateBackend checks that the selected backend is known and has a credential
func ValidateBackend(c *Config) error {
	switch c.Backend {
	case BackendOpenAI, BackendGemini:
	default:
		return &ConfigurationError{Msg: fmt.Sprintf("unsupported backend: %s (supported: %s, %s)", c.Backend, BackendOpenAI, BackendGemini)}
	}
	return ValidateAPIKey(c.Backend, c.SummarizerConfig().APIKey)
}
