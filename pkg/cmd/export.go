package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/config"
	"github.com/pseudomuto/kustokeeper/pkg/kusto"
	"github.com/pseudomuto/kustokeeper/pkg/layout"
	"github.com/pseudomuto/kustokeeper/pkg/orchestrator"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// export creates a CLI command that reads the live schema of a database and
// writes it into the schema directory as desired-state documents. The
// cluster is either given directly with --url or looked up by name in the
// registry with --target.
func export(cfg *config.Config, logger *zap.Logger, factory orchestrator.Factory) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the live schema of a database as desired-state documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database",
				Aliases:  []string{"d"},
				Usage:    "the database to export",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "the cluster URL",
			},
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "the registry target to export from",
			},
			&cli.StringFlag{
				Name:    "registry",
				Aliases: []string{"r"},
				Usage:   "the cluster registry (.yml or .toml)",
				Value:   cfg.Registry,
				Sources: cli.EnvVars("KUSTOKEEPER_REGISTRY"),
			},
			&cli.StringFlag{
				Name:  "schema-dir",
				Usage: "the directory to write documents to",
				Value: cfg.SchemaDir,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			target, err := exportTarget(cmd)
			if err != nil {
				return err
			}

			conn, err := factory(ctx, target)
			if err != nil {
				return errors.Wrapf(err, "failed to connect to %s", target.URL)
			}
			defer func() { _ = conn.Close() }()

			database := cmd.String("database")
			logger.Info("exporting database", zap.String("database", database), zap.String("target", target.Name))

			db, err := kusto.LoadDatabase(ctx, database, conn, kusto.DefaultLoaders()...)
			if err != nil {
				return err
			}

			dir := cmd.String("schema-dir")
			if err := layout.Write(dir, database, db, cfg.Codec()); err != nil {
				return errors.Wrap(err, "failed to write documents")
			}

			fmt.Fprintf(cmd.Root().Writer, "Exported %s from %s to %s\n", database, target.Name, dir)
			return nil
		},
	}
}

func exportTarget(cmd *cli.Command) (config.Target, error) {
	if url := cmd.String("url"); url != "" {
		return config.Target{Name: url, URL: url}, nil
	}

	name := cmd.String("target")
	if name == "" {
		return config.Target{}, errors.New("one of --url or --target is required")
	}

	reg, err := config.LoadRegistryFile(cmd.String("registry"))
	if err != nil {
		return config.Target{}, err
	}

	for _, t := range reg.Clusters {
		if t.Name == name {
			return t, nil
		}
	}
	return config.Target{}, errors.Errorf("target %q not found in registry", name)
}
