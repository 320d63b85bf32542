package cmd

import (
	"context"

	"github.com/pseudomuto/kustokeeper/pkg/config"
	"github.com/pseudomuto/kustokeeper/pkg/metrics"
	"github.com/pseudomuto/kustokeeper/pkg/orchestrator"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// diff creates a CLI command that plans a database on every registry target
// and prints the Markdown report followed by the validity verdict.
func diff(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics, factory orchestrator.Factory) *cli.Command {
	d := deps{cfg: cfg, logger: logger, metrics: m, factory: factory}

	return &cli.Command{
		Name:  "diff",
		Usage: "Show the changes needed to converge every target",
		Flags: planFlags(cfg),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return d.run(ctx, cmd, orchestrator.ModeDiff, nil)
		},
	}
}
