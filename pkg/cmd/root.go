package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Logger     *zap.Logger
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run creates the kustokeeper CLI application and schedules it to run once
// the fx application has started. The process exits with code 1 when the
// command fails, including when a plan is invalid.
//
// Example usage:
//
//	fx.New(
//		fx.Supply(os.Args, &cmd.Version{Version: "v1.0.0"}),
//		fx.Provide(func() context.Context { return context.Background() }),
//		config.Module,
//		cmd.Module,
//	).Run()
func Run(p Params) {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	app := &cli.Command{
		Name:  "kustokeeper",
		Usage: "Manage Azure Data Explorer (Kusto) databases as code",
		Description: `kustokeeper compares desired-state documents describing a Kusto
database with the live schema of every cluster in a registry, reports the
differences as Markdown and applies them.`,
		Version:  p.Version.Version,
		Commands: p.Commands,
	}

	p.Lifecycle.Append(fx.StartHook(func() {
		if err := app.Run(p.Ctx, p.Args); err != nil {
			p.Logger.Error("Error running command", zap.Error(err))
			_ = p.Logger.Sync()
			_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
			return
		}

		_ = p.Shutdowner.Shutdown(fx.ExitCode(0))
	}))
}
