package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/model"
	"gopkg.in/yaml.v3"
)

// Registry formats.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type (
	// Target is one cluster a database is deployed to.
	Target struct {
		// Name identifies the target in reports.
		Name string `yaml:"name" toml:"name" validate:"required"`

		// URL is the cluster endpoint, e.g. https://prod.westeurope.kusto.windows.net.
		URL string `yaml:"url" toml:"url" validate:"required,url"`

		// Follower names the follower document (under `followers/`) that
		// describes this target. Follower targets only get cache override
		// changes.
		Follower string `yaml:"follower,omitempty" toml:"follower"`

		// CapacityPolicy, when set, is merged into the cluster capacity policy.
		CapacityPolicy *model.CapacityPolicy `yaml:"capacityPolicy,omitempty" toml:"capacityPolicy"`
	}

	// Registry is the ordered list of targets.
	Registry struct {
		Clusters []Target `yaml:"clusters" toml:"clusters" validate:"required,min=1,unique=Name,dive"`
	}
)

// IsFollower reports whether the target is a follower cluster.
func (t Target) IsFollower() bool {
	return t.Follower != ""
}

// LoadRegistry decodes a registry in the given format and validates it.
//
// Example:
//
//	reg, err := config.LoadRegistry(strings.NewReader(`
//	[[clusters]]
//	name = "prod"
//	url = "https://prod.westeurope.kusto.windows.net"
//	`), config.FormatTOML)
func LoadRegistry(r io.Reader, format string) (*Registry, error) {
	var reg Registry

	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&reg); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal registry")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&reg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "failed to unmarshal registry")
		}
	default:
		return nil, errors.Errorf("unsupported registry format %q", format)
	}

	if err := validate.Struct(&reg); err != nil {
		return nil, errors.Wrap(err, "invalid registry")
	}
	return &reg, nil
}

// LoadRegistryFile loads a registry, choosing the format from the file
// extension. Files ending in .toml are TOML, everything else is YAML.
func LoadRegistryFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = FormatTOML
	}

	reg, err := LoadRegistry(f, format)
	return reg, errors.Wrapf(err, "registry %s", path)
}
