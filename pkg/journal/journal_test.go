package journal_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pseudomuto/kustokeeper/pkg/journal"
	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/clickhouse"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestEntries(t *testing.T) {
	runID := uuid.New()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	entries := journal.Entries(runID, "prod", "telemetry", at, []*model.ExecutionResult{
		{OperationID: "op-1", CommandType: "TableCreate", Result: model.StateCompleted, CommandText: ".create-merge table T(a:string)"},
		{OperationID: "op-2", CommandType: "TableDrop", Result: model.StateFailed, Reason: "boom", CommandText: ".drop table Old ifexists"},
	})

	require.Equal(t, []journal.Entry{
		{
			RunID: runID, Target: "prod", Database: "telemetry", AppliedAt: at,
			OperationID: "op-1", CommandType: "TableCreate", State: "Completed", CommandText: ".create-merge table T(a:string)",
		},
		{
			RunID: runID, Target: "prod", Database: "telemetry", AppliedAt: at,
			OperationID: "op-2", CommandType: "TableDrop", State: "Failed", Reason: "boom", CommandText: ".drop table Old ifexists",
		},
	}, entries)
}

func TestNop(t *testing.T) {
	var j journal.Journal = journal.Nop{}
	require.NoError(t, j.Record(context.Background(), []journal.Entry{{Target: "prod"}}))
	require.NoError(t, j.Close())
}

func TestOpenInvalidDSN(t *testing.T) {
	_, err := journal.Open(context.Background(), journal.Options{DSN: "://nope"})
	require.ErrorContains(t, err, "invalid journal DSN")
}

func skipIfNoDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("Docker not available")
	}
	if err := exec.Command("docker", "ps").Run(); err != nil {
		t.Skip("Docker daemon not running")
	}
}

func startClickHouse(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := clickhouse.Run(ctx,
		"clickhouse/clickhouse-server:25.7-alpine",
		clickhouse.WithUsername("default"),
		clickhouse.WithPassword(""),
		testcontainers.WithEnv(map[string]string{"CLICKHOUSE_DEFAULT_ACCESS_MANAGEMENT": "1"}),
		testcontainers.WithWaitStrategyAndDeadline(
			5*time.Minute,
			wait.NewHTTPStrategy("/").
				WithPort("8123/tcp").
				WithStatusCodeMatcher(func(status int) bool { return status == 200 }),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	return dsn
}

func TestClickHouseJournal(t *testing.T) {
	skipIfNoDocker(t)

	ctx := context.Background()
	j, err := journal.Open(ctx, journal.Options{DSN: startClickHouse(t)})
	require.NoError(t, err)
	defer func() { require.NoError(t, j.Close()) }()

	runID := uuid.New()
	at := time.Now().UTC().Truncate(time.Millisecond)
	entries := journal.Entries(runID, "prod", "telemetry", at, []*model.ExecutionResult{
		{OperationID: "op-1", CommandType: "TableCreate", Result: model.StateCompleted, CommandText: ".create-merge table T(a:string)"},
	})

	require.NoError(t, j.Record(ctx, entries))
	require.NoError(t, j.Record(ctx, nil))

	got, err := j.Run(ctx, runID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, runID, got[0].RunID)
	require.Equal(t, "op-1", got[0].OperationID)
	require.Equal(t, "Completed", got[0].State)
	require.True(t, at.Equal(got[0].AppliedAt))

	other, err := j.Run(ctx, uuid.New())
	require.NoError(t, err)
	require.Empty(t, other)
}
