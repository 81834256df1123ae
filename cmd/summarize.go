package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldp/internal"
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize [YouTube URL or ID]",
	Short: "Generate transcript and summary for a YouTube video",
	Example: `  # Detailed summary of a video
  tldp summarize "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  tldp summarize tAP1eZYEuKA

  # Technical summary written to summary_files/
  tldp summarize tAP1eZYEuKA --style technical --save

  # Skip the transcript and only ask for a summary
  tldp summarize tAP1eZYEuKA --simple`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummarize(cmd, args[0])
	},
}

// newSummaryApp validates the backend flags and builds an App with the prompt override applied
func newSummaryApp(cmd *cobra.Command) (*internal.App, error) {
	if err := internal.ValidateBackendRequirements(cmd, config); err != nil {
		return nil, err
	}

	app := internal.NewApp(config)
	if err := internal.HandlePromptFlag(cmd, app); err != nil {
		return nil, err
	}
	return app, nil
}

func summaryStrategies(cmd *cobra.Command) []internal.SummaryStrategy {
	if simple, _ := cmd.Flags().GetBool("simple"); simple {
		return []internal.SummaryStrategy{internal.StrategySimple}
	}
	return internal.DefaultStrategies
}

func runSummarize(cmd *cobra.Command, arg string) error {
	app, err := newSummaryApp(cmd)
	if err != nil {
		return err
	}

	style, _ := cmd.Flags().GetString("style")
	save, _ := cmd.Flags().GetBool("save")

	result, filePath, err := app.SummarizeVideo(cmd.Context(), arg, style, save, summaryStrategies(cmd)...)
	if err != nil {
		return err
	}

	if err := printSummary(result); err != nil {
		return err
	}
	if filePath != "" {
		app.UI().Printf("Summary saved to %s\n", filePath)
	}
	return nil
}

// printSummary renders markdown for terminals and prints plain text otherwise
func printSummary(result *internal.SummaryResult) error {
	text := internal.FormatSummary(result)
	if !internal.IsTerminal() {
		fmt.Print(text)
		return nil
	}

	rendered, err := internal.RenderMarkdown(text)
	if err != nil {
		fmt.Print(text)
		return nil
	}
	fmt.Print(rendered)
	return nil
}

func init() {
	internal.AddSummaryFlags(summarizeCmd)
	internal.AddBackendFlags(summarizeCmd)
	summarizeCmd.Flags().Bool("simple", false, "Ask only for a summary, without a transcript")
	rootCmd.AddCommand(summarizeCmd)
}
