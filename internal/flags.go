package internal

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// AddSummaryFlags adds flags controlling summary style and persistence
func AddSummaryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("style", "s", string(DefaultStyle), "Summary style: detailed, short, academic, descriptive, technical")
	cmd.Flags().Bool("save", false, "Write the summary to a text file")
}

// AddBackendFlags adds flags selecting the summarization backend
func AddBackendFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("backend", "b", "", "Summarization backend (gemini or openai)")
	cmd.Flags().StringP("model", "m", "", "Model to use for summaries")
	cmd.Flags().StringP("prompt", "p", "", "Custom structured prompt (string or file path)")
}

// HandlePromptFlag processes the --prompt flag to set custom prompt
func HandlePromptFlag(cmd *cobra.Command, app *App) error {
	promptFlag := cmd.Flags().Lookup("prompt")
	if promptFlag == nil || !promptFlag.Changed {
		return nil
	}

	prompt, err := cmd.Flags().GetString("prompt")
	if err != nil {
		return fmt.Errorf("failed to get prompt flag: %w", err)
	}

	if prompt == "" {
		return nil
	}

	app.SetPromptManager(NewPromptManager(app.config.ConfigDir, prompt))

	if IsLikelyFilePath(prompt) && FileExists(prompt) {
		slog.Debug("using custom prompt file", "path", prompt)
	} else {
		slog.Debug("using custom prompt string")
	}

	return nil
}

// HandleVerboseFlag processes the --verbose and --quiet flags to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	config.Verbose = config.Verbose || verbose
	config.Quiet = config.Quiet || quiet
	return nil
}

// ValidateBackendRequirements applies --backend/--model and checks the credential
func ValidateBackendRequirements(cmd *cobra.Command, config *Config) error {
	if backendFlag, _ := cmd.Flags().GetString("backend"); backendFlag != "" {
		if backendFlag != config.Backend {
			config.Backend = backendFlag
			config.Model = defaultModels[backendFlag]
		}
	}
	if modelFlag, _ := cmd.Flags().GetString("model"); modelFlag != "" {
		config.Model = modelFlag
	}
	return ValidateBackend(config)
}
