package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// DefaultConfigFile is the project configuration read by every command.
	DefaultConfigFile = "kustokeeper.yaml"

	// DefaultSchemaDir holds one directory of desired-state documents per
	// database.
	DefaultSchemaDir = "schema"

	// DefaultRegistry lists the clusters a database is deployed to.
	DefaultRegistry = "clusters.yml"

	// DefaultLogLevel is used when the configuration does not set one.
	DefaultLogLevel = "info"
)
