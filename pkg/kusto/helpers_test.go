package kusto

import (
	"testing"

	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/stretchr/testify/require"
)

func TestEntityName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "[telemetry].[Events]", want: "Events"},
		{in: "['telemetry'].['My Table']", want: "My Table"},
		{in: "telemetry.Events", want: "Events"},
		{in: "Events", want: "Events"},
		{in: "  [db].[T]  ", want: "T"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, entityName(tt.in))
		})
	}
}

func TestParseSchema(t *testing.T) {
	cols := parseSchema("Timestamp:datetime,['Event Name']:string, Props:dynamic,['a:b']:long")
	require.Equal(t, []model.Column{
		{Name: "Timestamp", Type: "datetime"},
		{Name: "Event Name", Type: "string"},
		{Name: "Props", Type: "dynamic"},
		{Name: "a:b", Type: "long"},
	}, cols.All())

	require.Equal(t, 0, parseSchema("").Len())
}

func TestStripBody(t *testing.T) {
	require.Equal(t, "Events | take 10", stripBody("{\n  Events | take 10\n}"))
	require.Equal(t, "print 1", stripBody("print 1"))
}

func TestRoleOf(t *testing.T) {
	tests := []struct {
		role string
		want string
		ok   bool
	}{
		{role: "Database telemetry Admin", want: model.RoleAdmins, ok: true},
		{role: "Database telemetry User", want: model.RoleUsers, ok: true},
		{role: "Database telemetry Viewer", want: model.RoleViewers, ok: true},
		{role: "Database telemetry Unrestricted Viewer", want: model.RoleUnrestrictedViewers, ok: true},
		{role: "Database telemetry Ingestor", want: model.RoleIngestors, ok: true},
		{role: "Database telemetry Monitor", want: model.RoleMonitors, ok: true},
		{role: "AllDatabasesAdmin", ok: false},
		{role: "Something else", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			role, ok := roleOf(tt.role)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, role)
		})
	}
}
