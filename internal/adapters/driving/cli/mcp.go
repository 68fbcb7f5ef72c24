package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scoperag/internal/adapters/driving/mcp"
)

var mcpCorpus string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can query the corpus.

By default, the server communicates over stdio using JSON-RPC.
Use --port to serve streamable HTTP instead, e.g. for MCP Inspector.

Tools:     query {query, k}, reload
Resources: scoperag://stats, scoperag://entries/{position}

Examples:
  # Stdio mode (default)
  scoperag mcp serve

  # HTTP mode
  scoperag mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "scoperag": {
        "command": "/path/to/scoperag",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVarP(&mcpCorpus, "corpus", "c", "", "corpus file (default from settings)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	rt, _, err := startRuntime(cmd.Context(), mcpCorpus)
	if err != nil {
		return err
	}
	defer rt.Close()

	server, err := mcp.NewServer(&mcp.Ports{
		Retrieval: rt.retrieval,
		Corpus:    rt.corpus,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
