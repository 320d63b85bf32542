package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/config"
	"github.com/pseudomuto/kustokeeper/pkg/journal"
	"github.com/pseudomuto/kustokeeper/pkg/metrics"
	"github.com/pseudomuto/kustokeeper/pkg/orchestrator"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// apply creates a CLI command that plans and applies a database on every
// registry target. When a journal DSN is configured every applied script is
// recorded in ClickHouse.
func apply(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics, factory orchestrator.Factory) *cli.Command {
	d := deps{cfg: cfg, logger: logger, metrics: m, factory: factory}

	return &cli.Command{
		Name:  "apply",
		Usage: "Apply the changes needed to converge every target",
		Flags: planFlags(cfg),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var j journal.Journal = journal.Nop{}
			if cfg.Journal.DSN != "" {
				ch, err := journal.Open(ctx, cfg.JournalOptions())
				if err != nil {
					return errors.Wrap(err, "failed to open apply journal")
				}
				defer func() { _ = ch.Close() }()
				j = ch
			}

			return d.run(ctx, cmd, orchestrator.ModeApply, j)
		},
	}
}
