package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/config"
	"github.com/pseudomuto/kustokeeper/pkg/consts"
	"github.com/pseudomuto/kustokeeper/pkg/kusto"
	"github.com/pseudomuto/kustokeeper/pkg/kusto/kustotest"
	"github.com/pseudomuto/kustokeeper/pkg/layout"
	"github.com/pseudomuto/kustokeeper/pkg/orchestrator"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const registry = `
clusters:
  - name: prod
    url: https://prod.westeurope.kusto.windows.net
`

type fakeConn struct {
	*kustotest.Fake
}

func (fakeConn) Close() error { return nil }

type fixture struct {
	dir      string
	registry string
	cfg      *config.Config
	fake     *kustotest.Fake
}

func newFixture(t *testing.T, documents map[string]string) *fixture {
	t.Helper()

	dir := t.TempDir()
	for name, body := range documents {
		path := filepath.Join(dir, "schema", name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), consts.ModeDir))
		require.NoError(t, os.WriteFile(path, []byte(body), consts.ModeFile))
	}

	reg := filepath.Join(dir, consts.DefaultRegistry)
	require.NoError(t, os.WriteFile(reg, []byte(registry), consts.ModeFile))

	cfg := config.Default()
	cfg.SchemaDir = filepath.Join(dir, "schema")
	cfg.Registry = reg

	return &fixture{dir: dir, registry: reg, cfg: cfg, fake: kustotest.New()}
}

func (f *fixture) factory(_ context.Context, target config.Target) (orchestrator.Connection, error) {
	if target.URL == "https://unreachable" {
		return nil, errors.New("connection refused")
	}
	return fakeConn{Fake: f.fake}, nil
}

func runCommand(t *testing.T, command *cli.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := &cli.Command{
		Name:     "test",
		Writer:   &out,
		Commands: []*cli.Command{command},
	}

	err := app.Run(context.Background(), append([]string{"test", command.Name}, args...))
	return out.String(), err
}

func TestDiff(t *testing.T) {
	f := newFixture(t, map[string]string{
		"telemetry/database.yml": "tables:\n  Events:\n    columns:\n      Name: string\n",
	})

	out, err := runCommand(t, diff(f.cfg, zap.NewNop(), nil, f.factory), "--database", "telemetry")
	require.NoError(t, err)
	require.Contains(t, out, "## prod: telemetry")
	require.Contains(t, out, "### Create Table `Events`")
	require.Contains(t, out, "\nPlan is valid\n")

	require.Empty(t, f.fake.Texts(".execute"))
}

func TestDiffInvalid(t *testing.T) {
	f := newFixture(t, map[string]string{"telemetry/database.yml": "tables: {}\n"})
	f.fake.On(".show database telemetry principals").Return(
		kusto.NewResult("Role", "PrincipalFQN").Add("Database telemetry Admin", "aaduser=ops@example.com"),
	)

	out, err := runCommand(t, diff(f.cfg, zap.NewNop(), nil, f.factory), "-d", "telemetry")
	require.ErrorIs(t, err, ErrInvalidPlan)
	require.Contains(t, out, "Plan is invalid")
}

func TestDiffOutputFile(t *testing.T) {
	f := newFixture(t, map[string]string{"telemetry/database.yml": "tables: {}\n"})
	path := filepath.Join(f.dir, "plan.md")

	out, err := runCommand(t, diff(f.cfg, zap.NewNop(), nil, f.factory), "-d", "telemetry", "-o", path)
	require.NoError(t, err)
	require.Equal(t, "\nPlan is valid\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "## prod: telemetry\n\nNo changes detected\n", string(data))
}

func TestDiffErrors(t *testing.T) {
	f := newFixture(t, map[string]string{"telemetry/database.yml": "tables: {}\n"})

	_, err := runCommand(t, diff(f.cfg, zap.NewNop(), nil, f.factory))
	require.ErrorContains(t, err, `"database"`)

	_, err = runCommand(t, diff(f.cfg, zap.NewNop(), nil, f.factory), "-d", "telemetry", "-r", filepath.Join(f.dir, "nope.yml"))
	require.ErrorContains(t, err, "failed to open file")

	_, err = runCommand(t, diff(f.cfg, zap.NewNop(), nil, f.factory), "-d", "missing")
	require.ErrorContains(t, err, "failed to load desired state for missing")
}

func TestApply(t *testing.T) {
	f := newFixture(t, map[string]string{
		"telemetry/database.yml": "tables:\n  Events:\n    columns:\n      Name: string\n",
	})
	f.fake.On(".execute database script").Return(
		kusto.NewResult("OperationId", "CommandType", "Result", "Reason").Add("1", "TableCreate", "Completed", ""),
	)

	out, err := runCommand(t, apply(f.cfg, zap.NewNop(), nil, f.factory), "-d", "telemetry")
	require.NoError(t, err)
	require.Contains(t, out, "## prod: telemetry (applied)")
	require.Contains(t, out, "| Completed | 1 | `.create-merge table Events(Name:string)` |")
	require.Len(t, f.fake.Texts(".execute database script"), 1)
}

func TestApplyFailure(t *testing.T) {
	f := newFixture(t, map[string]string{
		"telemetry/database.yml": "tables:\n  Events:\n    columns:\n      Name: string\n",
	})
	f.fake.On(".execute database script").Return(
		kusto.NewResult("OperationId", "CommandType", "Result", "Reason").Add("1", "TableCreate", "Failed", "boom"),
	)

	out, err := runCommand(t, apply(f.cfg, zap.NewNop(), nil, f.factory), "-d", "telemetry")
	require.ErrorContains(t, err, "target prod")
	require.ErrorContains(t, err, "boom")
	require.Contains(t, out, "Plan is invalid")
}

func TestExport(t *testing.T) {
	f := newFixture(t, nil)
	f.fake.On(".show database telemetry cslschema").Return(
		kusto.NewResult("TableName", "Schema", "DatabaseName", "Folder", "DocString").
			Add("Events", "Timestamp:datetime,Name:string", "telemetry", "raw", ""),
	)

	out, err := runCommand(t, export(f.cfg, zap.NewNop(), f.factory), "-d", "telemetry", "--target", "prod", "-r", f.registry)
	require.NoError(t, err)
	require.Contains(t, out, "Exported telemetry from prod to "+f.cfg.SchemaDir)

	db, err := layout.LoadDir(f.cfg.SchemaDir, "telemetry", f.cfg.Codec())
	require.NoError(t, err)
	require.Contains(t, db.Tables, "Events")
	require.Equal(t, "raw", db.Tables["Events"].Folder)
}

func TestExportErrors(t *testing.T) {
	f := newFixture(t, nil)
	command := export(f.cfg, zap.NewNop(), f.factory)

	_, err := runCommand(t, command, "-d", "telemetry")
	require.ErrorContains(t, err, "one of --url or --target is required")

	_, err = runCommand(t, export(f.cfg, zap.NewNop(), f.factory), "-d", "telemetry", "-t", "staging", "-r", f.registry)
	require.ErrorContains(t, err, `target "staging" not found in registry`)

	_, err = runCommand(t, export(f.cfg, zap.NewNop(), f.factory), "-d", "telemetry", "--url", "https://unreachable")
	require.ErrorContains(t, err, "failed to connect to https://unreachable")
}

func TestVerdict(t *testing.T) {
	var buf bytes.Buffer
	require.Equal(t, "Plan is valid", verdict(&buf, true))
	require.Equal(t, "Plan is invalid", verdict(&buf, false))
}
