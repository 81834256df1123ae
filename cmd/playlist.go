package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldp/internal"
)

// playlistCmd represents the playlist command
var playlistCmd = &cobra.Command{
	Use:   "playlist [playlist URL]",
	Short: "List the videos of a YouTube playlist",
	Example: `  # Write the playlist to playlist_files/playlist_<id>.txt
  tldp playlist "https://www.youtube.com/playlist?list=PLxyz"

  # Print the videos as JSON instead
  tldp playlist "https://www.youtube.com/playlist?list=PLxyz" --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.EnsureYtdlp(cmd.Context(), config); err != nil {
			return err
		}
		app := internal.NewApp(config)

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			videos, err := app.ExtractPlaylist(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(videos, "", "  ")
			if err != nil {
				return fmt.Errorf("error converting videos to JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		filePath, videos, err := app.SavePlaylist(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		app.UI().Printf("Saved %d videos to %s\n", len(videos), filePath)
		return nil
	},
}

func init() {
	playlistCmd.Flags().Bool("json", false, "Print the video list as JSON instead of writing a file")
	rootCmd.AddCommand(playlistCmd)
}
