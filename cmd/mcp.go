package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/dotcommander/innerscope/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long: `The mcp command serves the generate_report tool over the Model Context
Protocol on stdin/stdout. Logs go to stderr.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMCP(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	svc, cleanup, err := buildService(ctx, cfg, logger, nil)
	defer cleanup()
	if err != nil {
		return err
	}

	logger.Info("mcp server starting on stdio")
	return server.ServeStdio(mcptools.NewServer(Version, svc))
}
