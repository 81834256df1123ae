package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldp/internal"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [playlist URL]",
	Short: "Summarize every video of a playlist into one combined file",
	Example: `  # Summarize a playlist into a combined file
  tldp batch "https://www.youtube.com/playlist?list=PLxyz"

  # Short summaries, also one file per video
  tldp batch "https://www.youtube.com/playlist?list=PLxyz" --style short --save`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newSummaryApp(cmd)
		if err != nil {
			return err
		}
		if err := internal.EnsureYtdlp(cmd.Context(), config); err != nil {
			return err
		}

		style, _ := cmd.Flags().GetString("style")
		save, _ := cmd.Flags().GetBool("save")

		// The playlist size is only known once the first video is done
		var bar internal.ProgressBar
		observer := func(index, total int, entry internal.BatchManifestEntry) {
			if bar == nil {
				bar = app.UI().NewProgressBar(total, "Summarizing")
			}
			internal.BatchProgress(bar)(index, total, entry)
		}

		result, err := app.SummarizePlaylist(cmd.Context(), args[0], style, save, observer)
		if bar != nil {
			bar.Finish()
		}
		if err != nil {
			return err
		}

		printBatchResult(cmd.OutOrStdout(), result)
		return nil
	},
}

func printBatchResult(w io.Writer, result *internal.BatchResult) {
	fmt.Fprintln(w, result.String())
}

func init() {
	internal.AddSummaryFlags(batchCmd)
	internal.AddBackendFlags(batchCmd)
	rootCmd.AddCommand(batchCmd)
}
