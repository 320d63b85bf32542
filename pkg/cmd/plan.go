package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/config"
	"github.com/pseudomuto/kustokeeper/pkg/consts"
	"github.com/pseudomuto/kustokeeper/pkg/journal"
	"github.com/pseudomuto/kustokeeper/pkg/metrics"
	"github.com/pseudomuto/kustokeeper/pkg/orchestrator"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// ErrInvalidPlan is returned when a plan contains changes that cannot be
// applied.
var ErrInvalidPlan = errors.New("plan contains changes that cannot be applied")

var (
	validStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00BA7C"))
	invalidStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F4212E"))
)

type deps struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	factory orchestrator.Factory
}

func planFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "database",
			Aliases:  []string{"d"},
			Usage:    "the database to plan",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "registry",
			Aliases: []string{"r"},
			Usage:   "the cluster registry (.yml or .toml)",
			Value:   cfg.Registry,
			Sources: cli.EnvVars("KUSTOKEEPER_REGISTRY"),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write the Markdown report to this file instead of stdout",
		},
	}
}

func (d deps) run(ctx context.Context, cmd *cli.Command, mode orchestrator.Mode, j journal.Journal) error {
	reg, err := config.LoadRegistryFile(cmd.String("registry"))
	if err != nil {
		return err
	}

	o := orchestrator.New(orchestrator.Params{
		Config:   d.cfg,
		Registry: reg,
		Factory:  d.factory,
		Journal:  j,
		Metrics:  d.metrics,
		Logger:   d.logger,
	})

	res, runErr := o.Run(ctx, cmd.String("database"), mode)
	if res == nil {
		return runErr
	}

	w := cmd.Root().Writer
	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, []byte(res.Report), consts.ModeFile); err != nil {
			return errors.Wrapf(err, "failed to write report: %s", path)
		}
	} else if _, err := io.WriteString(w, res.Report); err != nil {
		return errors.Wrap(err, "failed to write report")
	}

	if _, err := io.WriteString(w, "\n"+verdict(w, res.Valid)+"\n"); err != nil {
		return errors.Wrap(err, "failed to write verdict")
	}

	if runErr != nil {
		return runErr
	}
	if !res.Valid {
		return ErrInvalidPlan
	}
	return nil
}

func verdict(w io.Writer, valid bool) string {
	text, style := "Plan is valid", validStyle
	if !valid {
		text, style = "Plan is invalid", invalidStyle
	}

	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return style.Render(text)
	}
	return text
}
