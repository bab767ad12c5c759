package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-research/infracfg/internal/catalog"
)

var (
	exportOutput    string
	exportFromStore string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the active catalog document to a file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine(cmd.Context(), exportFromStore)
		if err != nil {
			return err
		}
		out, err := e.SerializeCatalog()
		if err != nil {
			return err
		}
		if exportOutput == "-" {
			_, err = cmd.OutOrStdout().Write(out)
			return err
		}
		path := exportOutput
		if path == "" {
			path = catalog.ExportFileName(time.Now())
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("write catalog: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", path, len(out))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output path, '-' for stdout (default infrastructure-config-<date>.json)")
	exportCmd.Flags().StringVar(&exportFromStore, "from-store", "", "Export a catalog saved in the store under this name")
	rootCmd.AddCommand(exportCmd)
}
