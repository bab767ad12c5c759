package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/infracfg/internal/catalog"
)

var validateDeep bool

var validateCmd = &cobra.Command{
	Use:   "validate [catalog.json]",
	Short: "Check that a file is a valid catalog document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		c, err := catalog.Parse(raw)
		if err != nil {
			return err
		}
		if validateDeep || cfg.Strict {
			issues := catalog.ValidateDeep(c)
			for _, is := range issues {
				fmt.Fprintln(cmd.OutOrStdout(), is.String())
			}
			if len(issues) > 0 {
				return errors.New("catalog has deep validation issues")
			}
		}

		products := 0
		for pair := c.Products.Oldest(); pair != nil; pair = pair.Next() {
			products += len(pair.Value)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (%d steps, %d products)\n", c.ProductInfo.Name, len(c.Steps), products)
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateDeep, "deep", false, "Also check module, option and default consistency")
	rootCmd.AddCommand(validateCmd)
}
