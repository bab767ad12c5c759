package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentic-research/infracfg/internal/engine"
	"github.com/agentic-research/infracfg/internal/order"
	"github.com/agentic-research/infracfg/internal/validation"
)

var (
	quoteFromStore string
	quoteJSON      bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote [order.hcl]",
	Short: "Apply an HCL order to the catalog and print prices and validation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read order: %w", err)
		}
		f, err := order.Parse(args[0], src)
		if err != nil {
			return err
		}
		e, err := newEngine(cmd.Context(), quoteFromStore)
		if err != nil {
			return err
		}
		if err := f.Apply(cmd.Context(), e); err != nil {
			return err
		}
		if quoteJSON {
			return writeQuoteJSON(cmd.OutOrStdout(), e)
		}
		return writeQuote(cmd.OutOrStdout(), e, cfg.MessageLimit)
	},
}

func init() {
	quoteCmd.Flags().StringVar(&quoteFromStore, "from-store", "", "Use a catalog saved in the store under this name")
	quoteCmd.Flags().BoolVar(&quoteJSON, "json", false, "Print the quote as JSON")
	rootCmd.AddCommand(quoteCmd)
}

func writeQuoteJSON(w io.Writer, e *engine.Engine) error {
	msgs := e.CollectMessages()
	validation.Sort(msgs)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"quote":    e.Quote(),
		"status":   e.OverallStatus(),
		"messages": msgs,
	})
}

func writeQuote(w io.Writer, e *engine.Engine, limit int) error {
	c := e.Catalog()
	q := e.Quote()

	fmt.Fprintf(w, "%s: %s\n\n", c.ProductInfo.Name, c.ProductInfo.Subtitle)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, l := range q.Lines {
		fmt.Fprintf(tw, "%s/%s[%d]\t%s\tx%d\t%.2f\t%.2f\t\n", l.Category, l.SubItem, l.Index, l.Name, l.Quantity, l.Unit, l.Total)
	}
	if len(q.Lines) > 0 {
		fmt.Fprintln(tw, "\t\t\t\t\t")
	}
	for _, sub := range q.Categories {
		fmt.Fprintf(tw, "%s\t\t\t\t%.2f\t\n", sub.Label, sub.Total)
	}
	fmt.Fprintf(tw, "Total\t\t\t\t%.2f\t%s\n", q.Total, q.Currency)
	if err := tw.Flush(); err != nil {
		return err
	}

	msgs := e.CollectMessages()
	validation.Sort(msgs)
	fmt.Fprintf(w, "\nStatus: %s", e.OverallStatus())
	if len(msgs) > 0 {
		fmt.Fprintf(w, " (%s)", validation.Counts(msgs).Headline())
	}
	fmt.Fprintln(w)

	shown, remaining := validation.Truncate(msgs, limit)
	for _, m := range shown {
		fmt.Fprintf(w, "  [%s] %s: %s\n", m.Type, m.Title, m.Message)
	}
	if more := validation.MoreLine(remaining); more != "" {
		fmt.Fprintf(w, "  %s\n", more)
	}
	return nil
}
