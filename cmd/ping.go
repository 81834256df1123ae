package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldp/internal"
)

// pingCmd represents the ping command
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the connection to the summarization backend",
	Example: `  # Check the default backend
  tldp ping

  # Check OpenAI with a specific model
  tldp ping --backend openai --model gpt-4o`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newSummaryApp(cmd)
		if err != nil {
			return err
		}

		result, err := app.TestConnection(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", result.Message, result.Model)
		if config.Verbose {
			fmt.Printf("Response: %s\n", result.ResponsePreview)
		}
		return nil
	},
}

func init() {
	internal.AddBackendFlags(pingCmd)
	rootCmd.AddCommand(pingCmd)
}
