package config_test

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/pseudomuto/kustokeeper/pkg/config"
	"github.com/pseudomuto/kustokeeper/pkg/consts"
	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/utils"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

var (
	//go:embed testdata/clusters.yml
	clustersYAML string

	//go:embed testdata/clusters.toml
	clustersTOML string
)

func TestLoadRegistry(t *testing.T) {
	expected := &Registry{Clusters: []Target{
		{
			Name: "prod",
			URL:  "https://prod.westeurope.kusto.windows.net",
			CapacityPolicy: &model.CapacityPolicy{
				IngestionCapacity: &model.IngestionCapacity{
					ClusterMaximumConcurrentOperations: utils.Ptr[int64](512),
				},
			},
		},
		{
			Name:     "prod-follower",
			URL:      "https://follower.westeurope.kusto.windows.net",
			Follower: "reporting",
		},
	}}

	tests := []struct {
		name   string
		input  string
		format string
	}{
		{name: "yaml", input: clustersYAML, format: FormatYAML},
		{name: "toml", input: clustersTOML, format: FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := LoadRegistry(strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)
			require.Equal(t, expected, reg)

			assert.Assert(t, !reg.Clusters[0].IsFollower())
			assert.Assert(t, reg.Clusters[1].IsFollower())
		})
	}
}

func TestLoadRegistryErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format string
		err    string
	}{
		{name: "empty", input: "", format: FormatYAML, err: "invalid registry"},
		{name: "no clusters", input: "clusters: []", format: FormatYAML, err: "Clusters"},
		{
			name:   "missing url",
			input:  "clusters:\n  - name: prod\n",
			format: FormatYAML,
			err:    "URL",
		},
		{
			name:   "bad url",
			input:  "clusters:\n  - name: prod\n    url: not a url\n",
			format: FormatYAML,
			err:    "url",
		},
		{
			name: "duplicate names",
			input: `
[[clusters]]
name = "prod"
url = "https://a.kusto.windows.net"

[[clusters]]
name = "prod"
url = "https://b.kusto.windows.net"
`,
			format: FormatTOML,
			err:    "unique",
		},
		{name: "bad toml", input: "[[clusters", format: FormatTOML, err: "failed to unmarshal registry"},
		{name: "bad yaml", input: "clusters: [", format: FormatYAML, err: "failed to unmarshal registry"},
		{name: "unknown format", input: "", format: "json", err: `unsupported registry format "json"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := LoadRegistry(strings.NewReader(tt.input), tt.format)
			assert.Assert(t, is.Nil(reg))
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestLoadRegistryFile(t *testing.T) {
	dir := t.TempDir()

	for name, body := range map[string]string{
		"clusters.yml":  clustersYAML,
		"clusters.TOML": clustersTOML,
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), consts.ModeFile))

		reg, err := LoadRegistryFile(path)
		require.NoError(t, err, name)
		require.Len(t, reg.Clusters, 2)
	}

	_, err := LoadRegistryFile(filepath.Join(dir, "missing.yml"))
	require.ErrorContains(t, err, "failed to open file")

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("clusters: []"), consts.ModeFile))
	_, err = LoadRegistryFile(bad)
	require.ErrorContains(t, err, "registry "+bad)
}
