package config_test

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/pseudomuto/kustokeeper/pkg/config"
	"github.com/pseudomuto/kustokeeper/pkg/consts"
	"github.com/pseudomuto/kustokeeper/pkg/journal"
	"github.com/pseudomuto/kustokeeper/pkg/layout"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/kustokeeper.yaml
var testConfigYAML string

func TestLoadConfig(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		config, err := LoadConfig(strings.NewReader(testConfigYAML))
		require.NoError(t, err)
		validateTestConfig(t, config)
	})

	t.Run("error", func(t *testing.T) {
		config, err := LoadConfig(strings.NewReader("invalid: yaml: ["))
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "failed to unmarshal config")

		config, err = LoadConfig(strings.NewReader(""))
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "failed to unmarshal config")
	})

	t.Run("defaults", func(t *testing.T) {
		config, err := LoadConfig(strings.NewReader("other_key: value"))
		require.NoError(t, err)
		require.Equal(t, Default(), config)

		require.Equal(t, consts.DefaultSchemaDir, config.SchemaDir)
		require.Equal(t, consts.DefaultRegistry, config.Registry)
		require.Equal(t, consts.DefaultLogLevel, config.LogLevel)
		require.Equal(t, layout.DefaultCodec(), config.Codec())
		require.Equal(t, journal.DefaultDatabase, config.Journal.Database)
		require.Empty(t, config.MetricsFile)
		require.Zero(t, config.Apply.PollInterval)
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), consts.DefaultConfigFile)
		require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), consts.ModeFile))

		config, err := LoadConfigFile(path)
		require.NoError(t, err)
		validateTestConfig(t, config)
	})

	t.Run("missing file", func(t *testing.T) {
		config, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "failed to open file")
	})
}

func TestNewLogger(t *testing.T) {
	config := Default()
	logger, err := config.NewLogger()
	require.NoError(t, err)
	require.NotNil(t, logger)

	config.LogLevel = "chatty"
	_, err = config.NewLogger()
	require.ErrorContains(t, err, `invalid log_level "chatty"`)
}

func validateTestConfig(t *testing.T, config *Config) {
	t.Helper()

	require.Equal(t, "kusto", config.SchemaDir)
	require.Equal(t, "clusters.toml", config.Registry)
	require.Equal(t, "debug", config.LogLevel)
	require.Equal(t, "/var/lib/node_exporter/kustokeeper.prom", config.MetricsFile)
	require.Equal(t, layout.Codec{Indent: 4, MinOverlaySize: 2048}, config.Codec())
	require.Equal(t, 500*time.Millisecond, config.Apply.PollInterval)
	require.Equal(t, 120, config.Apply.MaxPolls)

	require.Equal(t, journal.Options{
		DSN:      "clickhouse://default:@localhost:9000/default",
		Database: journal.DefaultDatabase,
		CertFile: "certs/client.crt",
		KeyFile:  "certs/client.key",
		CAFile:   "certs/ca.crt",
	}, config.JournalOptions())
}
