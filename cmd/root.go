package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldp/internal"
)

const shutdownGrace = 10 * time.Second

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tldp [YouTube URL or ID]",
	Short: "Too Long; Didn't Play - YouTube playlist and video summarizer",
	Long: `TLDP (Too Long; Didn't Play) lists YouTube playlists and summarizes videos using AI.

Playlists are extracted with yt-dlp. Videos are summarized by a hosted
multimodal model (Gemini by default, or OpenAI) that produces both a
transcript and a summary in the requested style.

Run "tldp serve" to expose the same operations over HTTP.`,
	Example: `  # Summarize a YouTube video (default behavior)
  tldp "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  tldp tAP1eZYEuKA

  # Short summary with OpenAI
  tldp tAP1eZYEuKA --style short --backend openai

  # Use custom prompt for summary
  tldp tAP1eZYEuKA --prompt "Summarize {{.VideoURL}}. {{.Instruction}}"`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.HandleVerboseFlag(cmd, config); err != nil {
			return err
		}
		internal.SetupLogging(config, os.Stderr)
		return nil
	},
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := internal.ExtractVideoID(args[0]); err != nil {
			return unknownArgError(cmd, args[0])
		}
		return runSummarize(cmd, args[0])
	},
}

// unknownArgError suggests subcommands for arguments that are neither URLs nor video IDs
func unknownArgError(cmd *cobra.Command, arg string) error {
	var suggestions []string
	for _, sub := range cmd.Root().Commands() {
		name := sub.Name()
		if strings.HasPrefix(name, arg) || strings.Contains(name, arg) {
			suggestions = append(suggestions, name)
		}
	}
	if len(suggestions) > 0 {
		return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID. Did you mean: %s?", arg, strings.Join(suggestions, ", "))
	}
	return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID. Use --help to see available commands", arg)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config = internal.InitConfig()

	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir, config.OutputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	if err := internal.EnsureDefaultPrompts(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default prompts: %v\n", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
		case <-done:
			return
		}
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal. Cleaning up and shutting down...")

		// Commands observe ctx; only force the exit when one does not return in time
		cancel()

		select {
		case <-done:
		case <-time.After(shutdownGrace):
			fmt.Fprintln(os.Stderr, "Warning: Shutdown timed out, forcing exit")
			cleanupTemp()
			os.Exit(1)
		}
	}()

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	close(done)
	cleanupTemp()
	return err
}

func cleanupTemp() {
	if err := internal.CleanupTempDir(config.TempDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error cleaning up temporary files: %v\n", err)
	}
}

func init() {
	internal.AddSummaryFlags(rootCmd)
	internal.AddBackendFlags(rootCmd)
	rootCmd.Flags().Bool("simple", false, "Ask only for a summary, without a transcript")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print results and errors")
}
