package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/rtzll/tldp/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run MCP server for TL;DP",
	Long: `Run a Model Context Protocol (MCP) server that exposes TL;DP functionality as tools.

The MCP server provides four tools:
- extract_playlist: List the videos of a playlist (free)
- summarize_video: Transcript and summary of one video (paid model call)
- summarize_playlist: Combined summaries of a whole playlist (paid, one call per video)
- test_connection: Check the configured model backend

This allows AI assistants to use TL;DP capabilities through the MCP protocol.
Logs go to $XDG_CACHE_HOME/tldp/mcp.log when mcp_log is enabled in config.toml.

Transport options:
- stdio (default): Standard MCP transport via stdin/stdout
- http: HTTP transport on specified port (use --port to configure)`,
	Example: `  # Run MCP server with stdio transport (e.g. for Claude Desktop)
  tldp mcp

  # Run MCP server with HTTP transport on port 8080
  tldp mcp --transport=http --port=8080

  # Set up Claude Desktop integration
  tldp mcp setup-claude`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol, so logs go to a file or nowhere
		if err := internal.SetupMCPLogging(config); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		_ = internal.ValidateBackendRequirements(cmd, config)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		if err := internal.EnsureYtdlp(cmd.Context(), config); err != nil {
			return err
		}
		app := internal.NewApp(config)
		if err := internal.HandlePromptFlag(cmd, app); err != nil {
			return err
		}

		mcpServer := internal.NewMCPServer(app, version)

		if transport == "http" {
			fmt.Fprintf(os.Stderr, "Starting TL;DP MCP server on HTTP port %d...\n", port)
		}

		return mcpServer.Start(cmd.Context(), transport, port)
	},
}

// setupClaudeCmd represents the setup-claude subcommand
var setupClaudeCmd = &cobra.Command{
	Use:   "setup-claude",
	Short: "Configure Claude Desktop to use TL;DP MCP server",
	Long: `Register TL;DP as an MCP server in Claude Desktop.

The "tldp" entry in claude_desktop_config.json is added or replaced;
other servers and settings in the file are kept as they are. The entry
passes the current XDG base directories so the server reads the same
config.toml and writes to the same output directory as the CLI.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := claudeDesktopConfigPath()
		if err != nil {
			return fmt.Errorf("getting Claude Desktop config path: %w", err)
		}

		entry, err := tldpServerEntry()
		if err != nil {
			return err
		}

		if err := registerMCPServer(configPath, "tldp", entry); err != nil {
			return err
		}

		fmt.Printf("Registered TL;DP MCP server in %s\n", configPath)
		fmt.Println("Restart Claude Desktop to use it")
		return nil
	},
}

// mcpServerEntry is one server under "mcpServers" in claude_desktop_config.json
type mcpServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
}

func tldpServerEntry() (mcpServerEntry, error) {
	execPath, err := os.Executable()
	if err != nil {
		return mcpServerEntry{}, fmt.Errorf("getting executable path: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return mcpServerEntry{}, fmt.Errorf("resolving executable path: %w", err)
	}

	return mcpServerEntry{
		Command: execPath,
		Args:    []string{"mcp"},
		Env: map[string]string{
			"XDG_DATA_HOME":   xdg.DataHome,
			"XDG_CONFIG_HOME": xdg.ConfigHome,
			"XDG_CACHE_HOME":  xdg.CacheHome,
		},
	}, nil
}

// registerMCPServer sets mcpServers[name] in an existing Claude Desktop config.
// Unknown top-level keys and other servers survive the rewrite untouched.
func registerMCPServer(configPath, name string, entry mcpServerEntry) error {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config for Claude Desktop not found at %s", configPath)
	}
	if err != nil {
		return fmt.Errorf("reading existing config: %w", err)
	}

	doc := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing existing config: %w", err)
		}
	}

	servers := map[string]json.RawMessage{}
	if raw, ok := doc["mcpServers"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &servers); err != nil {
			return fmt.Errorf("parsing mcpServers: %w", err)
		}
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding server entry: %w", err)
	}
	servers[name] = encoded

	if doc["mcpServers"], err = json.Marshal(servers); err != nil {
		return fmt.Errorf("encoding mcpServers: %w", err)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(configPath, append(out, '\n'), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// claudeDesktopConfigPath returns the platform-specific config path for Claude Desktop
func claudeDesktopConfigPath() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json"), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		return filepath.Join(appData, "Claude", "claude_desktop_config.json"), nil
	case "linux":
		return filepath.Join(xdg.ConfigHome, "Claude", "claude_desktop_config.json"), nil
	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or http)")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport (only used with --transport=http)")
	internal.AddBackendFlags(mcpCmd)
	mcpCmd.AddCommand(setupClaudeCmd)
	rootCmd.AddCommand(mcpCmd)
}
