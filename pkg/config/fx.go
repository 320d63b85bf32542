package config

import (
	"os"

	"github.com/pseudomuto/kustokeeper/pkg/consts"
	"github.com/pseudomuto/kustokeeper/pkg/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("config", fx.Provide(
	// Loads kustokeeper.yaml when it exists and falls back to the defaults
	// otherwise so commands work in a bare directory.
	func() (*Config, error) {
		if _, err := os.Stat(consts.DefaultConfigFile); os.IsNotExist(err) {
			return Default(), nil
		}

		return LoadConfigFile(consts.DefaultConfigFile)
	},
	func(c *Config) (*zap.Logger, error) {
		return c.NewLogger()
	},
	metrics.New,
))
