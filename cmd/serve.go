package cmd

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rtzll/tldp/internal"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API exposing playlist extraction and video summaries.

Routes:
  POST /api/playlist/to-file/
  POST /api/playlist/as-json/
  POST /api/summarize/video/
  GET|POST /api/summarize/test-connection/
  POST /api/summarize/playlist/
  GET /healthz

A missing API key does not prevent startup; summary routes answer with 400 until one is configured.`,
	Example: `  # Serve on the configured address (default :8000)
  tldp serve

  # Serve on another port with OpenAI
  tldp serve --addr :9000 --backend openai`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			config.Addr = addr
		}
		// Missing keys surface per request instead of blocking startup
		_ = internal.ValidateBackendRequirements(cmd, config)

		if !config.Verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		if config.LogFormat == "" {
			config.LogFormat = "json"
			internal.SetupLogging(config, os.Stderr)
		}
		if err := internal.EnsureYtdlp(cmd.Context(), config); err != nil {
			return err
		}

		app := internal.NewApp(config)
		if err := internal.HandlePromptFlag(cmd, app); err != nil {
			return err
		}

		return internal.NewServer(app).Run(cmd.Context(), config.Addr)
	},
}

func init() {
	internal.AddBackendFlags(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8000)")
	rootCmd.AddCommand(serveCmd)
}
