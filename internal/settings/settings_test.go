package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "sqlite", s.StoreDriver)
	assert.Equal(t, 6, s.MessageLimit)
	assert.False(t, s.DerivedCompleteness)
	assert.Empty(t, s.ConfigFile)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "infracfg.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log-level: debug\nmessage-limit: 3\nstore-dsn: file.db\n"), 0o644))
	t.Setenv("INFRACFG_STORE_DSN", "env.db")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("message-limit", 6, "")
	flags.Bool("derived-completeness", false, "")
	require.NoError(t, flags.Parse([]string{"--derived-completeness"}))

	s, err := Load(cfg, flags)
	require.NoError(t, err)
	assert.Equal(t, cfg, s.ConfigFile)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 3, s.MessageLimit, "unchanged flag does not override the file")
	assert.Equal(t, "env.db", s.StoreDSN)
	assert.True(t, s.DerivedCompleteness)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	ok := Settings{LogLevel: "warn", LogFormat: "json", StoreDriver: "postgres", MessageLimit: 0}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.LogLevel = "loud"
	assert.Error(t, bad.Validate())
	bad = ok
	bad.LogFormat = "xml"
	assert.Error(t, bad.Validate())
	bad = ok
	bad.StoreDriver = "mongo"
	assert.Error(t, bad.Validate())
	bad = ok
	bad.MessageLimit = -1
	assert.Error(t, bad.Validate())
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug", "json")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1))

	_, err = NewLogger("nope", "console")
	assert.Error(t, err)
}
