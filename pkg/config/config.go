package config

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/consts"
	"github.com/pseudomuto/kustokeeper/pkg/journal"
	"github.com/pseudomuto/kustokeeper/pkg/layout"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type (
	// Apply tunes the apply engine.
	Apply struct {
		// PollInterval is the delay between async operation status queries,
		// e.g. "1s".
		PollInterval time.Duration `yaml:"poll_interval,omitempty"`

		// MaxPolls bounds how long an async operation is waited for.
		MaxPolls int `yaml:"max_polls,omitempty"`
	}

	// Journal configures the ClickHouse apply log. Leaving DSN empty disables
	// the journal.
	Journal struct {
		DSN      string `yaml:"dsn,omitempty"`
		Database string `yaml:"database,omitempty"`
		CertFile string `yaml:"cert_file,omitempty"`
		KeyFile  string `yaml:"key_file,omitempty"`
		CAFile   string `yaml:"ca_file,omitempty"`
	}

	// Layout configures how desired-state documents are (de)serialized.
	Layout struct {
		// Indent is the number of spaces per YAML nesting level.
		Indent int `yaml:"indent,omitempty"`

		// MinOverlaySize is the serialized size at which an entity is written
		// to its own overlay file by `export`.
		MinOverlaySize int `yaml:"min_overlay_size,omitempty"`
	}

	// Config represents the project configuration.
	Config struct {
		// SchemaDir holds one directory of documents per database.
		SchemaDir string `yaml:"schema_dir"`

		// Registry is the path of the cluster registry (.yml, .yaml or .toml).
		Registry string `yaml:"registry"`

		// LogLevel is a zap level name: debug, info, warn or error.
		LogLevel string `yaml:"log_level"`

		// MetricsFile, when set, receives Prometheus metrics in the
		// node-exporter textfile format after every run.
		MetricsFile string `yaml:"metrics_file,omitempty"`

		Layout  Layout  `yaml:"layout"`
		Apply   Apply   `yaml:"apply"`
		Journal Journal `yaml:"journal"`
	}
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig parses a project configuration from the provided io.Reader and
// fills in defaults for everything left unset.
//
// Example:
//
//	cfg, err := config.LoadConfig(strings.NewReader(`
//	schema_dir: kusto
//	registry: clusters.toml
//	log_level: debug
//	`))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Println(cfg.SchemaDir) // kusto
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadConfigFile loads a project configuration from the specified file path.
//
// Example:
//
//	cfg, err := config.LoadConfigFile("kustokeeper.yaml")
//	if err != nil {
//		log.Fatal("Failed to load config:", err)
//	}
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

func (c *Config) applyDefaults() {
	defaults := layout.DefaultCodec()

	if c.SchemaDir == "" {
		c.SchemaDir = consts.DefaultSchemaDir
	}
	if c.Registry == "" {
		c.Registry = consts.DefaultRegistry
	}
	if c.LogLevel == "" {
		c.LogLevel = consts.DefaultLogLevel
	}
	if c.Layout.Indent <= 0 {
		c.Layout.Indent = defaults.Indent
	}
	if c.Layout.MinOverlaySize <= 0 {
		c.Layout.MinOverlaySize = defaults.MinOverlaySize
	}
	if c.Journal.Database == "" {
		c.Journal.Database = journal.DefaultDatabase
	}
}

// Codec returns the document serializer configured for the project.
func (c *Config) Codec() layout.Codec {
	return layout.Codec{Indent: c.Layout.Indent, MinOverlaySize: c.Layout.MinOverlaySize}
}

// JournalOptions returns the journal connection options.
func (c *Config) JournalOptions() journal.Options {
	return journal.Options{
		DSN:      c.Journal.DSN,
		Database: c.Journal.Database,
		CertFile: c.Journal.CertFile,
		KeyFile:  c.Journal.KeyFile,
		CAFile:   c.Journal.CAFile,
	}
}

// NewLogger builds a production zap logger at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log_level %q", c.LogLevel)
	}

	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.Encoding = "console"
	zc.DisableStacktrace = true

	logger, err := zc.Build()
	return logger, errors.Wrap(err, "failed to build logger")
}
