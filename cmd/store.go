package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var storeGetOutput string

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage catalog documents in the SQL store",
}

var storePutCmd = &cobra.Command{
	Use:   "put [name] [catalog.json]",
	Short: "Validate and save a catalog document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		ds, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = ds.Close() }()

		rec, err := ds.Put(cmd.Context(), args[0], raw)
		if err != nil {
			return err
		}
		logger.Info("catalog stored", zap.String("name", rec.Name), zap.String("digest", rec.Digest))
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", rec.Name, rec.Digest)
		return nil
	},
}

var storeGetCmd = &cobra.Command{
	Use:   "get [name]",
	Short: "Print or write a stored catalog document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = ds.Close() }()

		rec, err := ds.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if storeGetOutput == "" {
			_, err = cmd.OutOrStdout().Write(rec.Document)
			return err
		}
		return os.WriteFile(storeGetOutput, rec.Document, 0o644)
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored catalog documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = ds.Close() }()

		recs, err := ds.List(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDIGEST\tUPDATED")
		for _, r := range recs {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Digest[:16], r.UpdatedAt.Format(time.RFC3339))
		}
		return tw.Flush()
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a stored catalog document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = ds.Close() }()
		return ds.Delete(cmd.Context(), args[0])
	},
}

func init() {
	storeGetCmd.Flags().StringVarP(&storeGetOutput, "output", "o", "", "Write to a file instead of stdout")
	storeCmd.AddCommand(storePutCmd, storeGetCmd, storeListCmd, storeDeleteCmd)
	rootCmd.AddCommand(storeCmd)
}
