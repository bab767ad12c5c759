package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentic-research/infracfg/internal/mcpserver"
)

var serveFromStore string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a configuration session as MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine(cmd.Context(), serveFromStore)
		if err != nil {
			return err
		}
		logger.Info("serving mcp on stdio",
			zap.String("catalog", e.Catalog().ProductInfo.Name),
			zap.Stringer("policy", e.Policy()))
		return mcpserver.New(e, logger, cfg.MessageLimit).ServeStdio(version)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFromStore, "from-store", "", "Serve a catalog saved in the store under this name")
	rootCmd.AddCommand(serveCmd)
}
