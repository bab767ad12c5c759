package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentic-research/infracfg/internal/catalog"
	"github.com/agentic-research/infracfg/internal/docstore"
	"github.com/agentic-research/infracfg/internal/engine"
	"github.com/agentic-research/infracfg/internal/settings"
	"github.com/agentic-research/infracfg/internal/store"
)

// version is overridden at build time with -ldflags "-X".
var version = "dev"

var (
	cfgFile string
	cfg     settings.Settings
	logger  = zap.NewNop()
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default ./infracfg.yaml or ~/.config/infracfg/infracfg.yaml)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "console", "Log format: console or json")
	pf.StringP("catalog", "c", "", "Catalog document to use instead of the built-in one")
	pf.String("store-driver", "sqlite", "Catalog store driver: sqlite or postgres")
	pf.String("store-dsn", "infracfg.db", "Catalog store data source name")
	pf.Int("message-limit", 6, "Messages shown before truncating (0 shows all)")
	pf.Bool("derived-completeness", false, "Derive 'configured' from required modules instead of the add-time flag")
	pf.Bool("strict", false, "Run deep catalog checks on load")
}

var rootCmd = &cobra.Command{
	Use:           "infracfg",
	Short:         "Configure and price infrastructure orders from a product catalog",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		l, err := settings.NewLogger(s.LogLevel, s.LogFormat)
		if err != nil {
			return err
		}
		cfg, logger = s, l
		if s.ConfigFile != "" {
			logger.Debug("using config file", zap.String("path", s.ConfigFile))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context) (*docstore.Store, error) {
	return docstore.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
}

// catalogBytes resolves the active catalog document: a stored catalog when
// fromStore is set, else the --catalog file, else the built-in document.
func catalogBytes(ctx context.Context, fromStore string) ([]byte, string, error) {
	switch {
	case fromStore != "":
		ds, err := openStore(ctx)
		if err != nil {
			return nil, "", err
		}
		defer func() { _ = ds.Close() }()
		rec, err := ds.Get(ctx, fromStore)
		if err != nil {
			return nil, "", err
		}
		return rec.Document, "store:" + fromStore, nil
	case cfg.CatalogPath != "":
		raw, err := os.ReadFile(cfg.CatalogPath)
		if err != nil {
			return nil, "", fmt.Errorf("read catalog: %w", err)
		}
		return raw, cfg.CatalogPath, nil
	default:
		return catalog.DefaultDocument(), "built-in", nil
	}
}

// newEngine starts a session on the resolved catalog.
func newEngine(ctx context.Context, fromStore string) (*engine.Engine, error) {
	policy := store.FlagPolicy
	if cfg.DerivedCompleteness {
		policy = store.DerivedPolicy
	}
	e := engine.New(nil,
		engine.WithLogger(logger),
		engine.WithPolicy(policy),
		engine.WithStrict(cfg.Strict))

	raw, source, err := catalogBytes(ctx, fromStore)
	if err != nil {
		return nil, err
	}
	if source == "built-in" {
		return e, nil
	}
	if _, err := e.TryLoadCatalog(raw); err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", source, err)
	}
	return e, nil
}
