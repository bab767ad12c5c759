package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/agentic-research/infracfg/internal/catalog"
)

var queryFromStore string

var queryCmd = &cobra.Command{
	Use:   "query [jsonpath]",
	Short: "Evaluate a JSONPath expression against the active catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine(cmd.Context(), queryFromStore)
		if err != nil {
			return err
		}
		res, err := catalog.Query(e.Catalog(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryFromStore, "from-store", "", "Query a catalog saved in the store under this name")
	rootCmd.AddCommand(queryCmd)
}
