// Package settings resolves runtime settings from defaults, an optional
// config file, INFRACFG_* environment variables and command-line flags.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// ConfigName is the base name of the config file, without extension.
	ConfigName = "infracfg"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "INFRACFG"
)

// Settings is the resolved configuration.
type Settings struct {
	LogLevel            string `mapstructure:"log-level"`
	LogFormat           string `mapstructure:"log-format"`
	CatalogPath         string `mapstructure:"catalog"`
	StoreDriver         string `mapstructure:"store-driver"`
	StoreDSN            string `mapstructure:"store-dsn"`
	MessageLimit        int    `mapstructure:"message-limit"`
	DerivedCompleteness bool   `mapstructure:"derived-completeness"`
	Strict              bool   `mapstructure:"strict"`

	// ConfigFile is the file actually read, if any.
	ConfigFile string `mapstructure:"-"`
}

// flagKeys are the keys bound to same-named flags when present.
var flagKeys = []string{
	"log-level", "log-format", "catalog", "store-driver", "store-dsn",
	"message-limit", "derived-completeness", "strict",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "console")
	v.SetDefault("catalog", "")
	v.SetDefault("store-driver", "sqlite")
	v.SetDefault("store-dsn", "infracfg.db")
	v.SetDefault("message-limit", 6)
	v.SetDefault("derived-completeness", false)
	v.SetDefault("strict", false)
}

// Load resolves settings. cfgFile, when set, must exist; otherwise the
// default locations are searched and a missing file is not an error.
func Load(cfgFile string, flags *pflag.FlagSet) (Settings, error) {
	var s Settings
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return s, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, key := range flagKeys {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return s, fmt.Errorf("bind flag --%s: %w", key, err)
				}
			}
		}
	}

	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("decode settings: %w", err)
	}
	s.ConfigFile = v.ConfigFileUsed()
	return s, s.Validate()
}

// Validate checks enumerations and ranges.
func (s Settings) Validate() error {
	if _, err := zapcore.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("invalid log-level %q", s.LogLevel)
	}
	switch s.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log-format %q (want console or json)", s.LogFormat)
	}
	switch s.StoreDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid store-driver %q (want sqlite or postgres)", s.StoreDriver)
	}
	if s.MessageLimit < 0 {
		return fmt.Errorf("invalid message-limit %d", s.MessageLimit)
	}
	return nil
}

// NewLogger builds a zap logger writing to stderr. json selects the
// production encoder; anything else the development console encoder.
func NewLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
