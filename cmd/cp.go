package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/rtzll/tldp/internal"
)

// cpCmd copies the summary to the system clipboard instead of printing to stdout.
var cpCmd = &cobra.Command{
	Use:   "cp [YouTube URL or ID]",
	Short: "Copy a video summary to the clipboard",
	Example: `  # Copy a detailed summary
  tldp cp "https://www.youtube.com/watch?v=tAP1eZYEuKA"

  # Copy a short summary without the transcript
  tldp cp tAP1eZYEuKA --style short --simple`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newSummaryApp(cmd)
		if err != nil {
			return err
		}

		style, _ := cmd.Flags().GetString("style")
		save, _ := cmd.Flags().GetBool("save")

		result, filePath, err := app.SummarizeVideo(cmd.Context(), args[0], style, save, summaryStrategies(cmd)...)
		if err != nil {
			return err
		}

		if err := clipboard.WriteAll(internal.FormatSummary(result)); err != nil {
			return fmt.Errorf("copying summary to clipboard: %w", err)
		}

		app.UI().Println("Summary copied to clipboard")
		if filePath != "" {
			app.UI().Printf("Summary saved to %s\n", filePath)
		}

		return nil
	},
}

func init() {
	internal.AddSummaryFlags(cpCmd)
	internal.AddBackendFlags(cpCmd)
	cpCmd.Flags().Bool("simple", false, "Ask only for a summary, without a transcript")
	rootCmd.AddCommand(cpCmd)
}
