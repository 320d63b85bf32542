package layout

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"testing/fstest"

	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/consts"
	"github.com/pseudomuto/kustokeeper/pkg/merge"
	"github.com/pseudomuto/kustokeeper/pkg/model"
)

// BaseFile is the name of the base document inside a database directory.
const BaseFile = "database.yml"

type (
	// DecodeError reports a malformed document.
	DecodeError struct {
		File   string
		Entity string
		Err    error
	}

	// kind binds an overlay directory to the entity collection it feeds.
	kind struct {
		dir     string
		decode  func(c Codec, data []byte, name string, db *model.Database) error
		entries func(db *model.Database) map[string]any
		remove  func(db *model.Database, name string)
	}
)

func (e *DecodeError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("%s: entity %q: %v", e.File, e.Entity, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Cause supports errors.Cause from github.com/pkg/errors.
func (e *DecodeError) Cause() error { return e.Err }

var kinds = []kind{
	entityKind("tables", func(db *model.Database) map[string]*model.Table { return db.Tables }),
	entityKind("functions", func(db *model.Database) map[string]*model.Function { return db.Functions }),
	entityKind("materialized-views", func(db *model.Database) map[string]*model.MaterializedView { return db.MaterializedViews }),
	entityKind("external-tables", func(db *model.Database) map[string]*model.ExternalTable { return db.ExternalTables }),
	entityKind("continuous-exports", func(db *model.Database) map[string]*model.ContinuousExport { return db.ContinuousExports }),
	entityKind("entity-groups", func(db *model.Database) map[string]*model.EntityGroup { return db.EntityGroups }),
	entityKind("followers", func(db *model.Database) map[string]*model.FollowerDatabase { return db.Followers }),
}

func entityKind[T any](dir string, collection func(*model.Database) map[string]*T) kind {
	return kind{
		dir: dir,
		decode: func(c Codec, data []byte, name string, db *model.Database) error {
			var v T
			if err := c.Unmarshal(data, &v); err != nil {
				return err
			}
			collection(db)[name] = &v
			return nil
		},
		entries: func(db *model.Database) map[string]any {
			out := make(map[string]any, len(collection(db)))
			for name, v := range collection(db) {
				out[name] = v
			}
			return out
		},
		remove: func(db *model.Database, name string) {
			delete(collection(db), name)
		},
	}
}

// LoadDir loads the desired state for database from the directory root.
func LoadDir(root, database string, codec Codec) (*model.Database, error) {
	return Load(os.DirFS(root), database, codec)
}

// Load reads the base document and every overlay for database from fsys,
// merges them and returns the normalized result.
//
// The database directory must exist; the base document is optional so a
// database can be described entirely through overlays.
//
// Example:
//
//	db, err := layout.Load(os.DirFS("schemas"), "telemetry", layout.DefaultCodec())
//	if err != nil {
//		var derr *layout.DecodeError
//		if errors.As(err, &derr) {
//			log.Fatalf("bad document %s (%s)", derr.File, derr.Entity)
//		}
//	}
func Load(fsys fs.FS, database string, codec Codec) (*model.Database, error) {
	if info, err := fs.Stat(fsys, database); err != nil {
		return nil, errors.Wrapf(err, "failed to find desired state for database %s", database)
	} else if !info.IsDir() {
		return nil, errors.Errorf("desired state for database %s is not a directory", database)
	}

	db := model.New()
	basePath := path.Join(database, BaseFile)
	data, err := fs.ReadFile(fsys, basePath)
	switch {
	case err == nil:
		if err := codec.Unmarshal(data, db); err != nil {
			return nil, &DecodeError{File: basePath, Err: err}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, errors.Wrapf(err, "failed to read %s", basePath)
	}

	for _, k := range kinds {
		dir := path.Join(database, k.dir)
		entries, err := fs.ReadDir(fsys, dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list %s", dir)
		}

		// NB: ReadDir returns entries sorted by file name.
		for _, entry := range entries {
			name, ok := entityName(entry)
			if !ok {
				continue
			}

			file := path.Join(dir, entry.Name())
			data, err := fs.ReadFile(fsys, file)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read %s", file)
			}

			overlay := model.New()
			if err := k.decode(codec, data, name, overlay); err != nil {
				return nil, &DecodeError{File: file, Entity: name, Err: err}
			}

			db = merge.Database(db, overlay)
		}
	}

	return merge.Normalize(db), nil
}

func entityName(entry fs.DirEntry) (string, bool) {
	if entry.IsDir() {
		return "", false
	}

	ext := path.Ext(entry.Name())
	if ext != ".yml" && ext != ".yaml" {
		return "", false
	}
	return strings.TrimSuffix(entry.Name(), ext), true
}

// Image renders db as a file system image rooted at the database directory.
// Entities whose serialized form is at least codec.MinOverlaySize bytes are
// written to overlay files, everything else stays in the base document.
//
// Example:
//
//	img, _ := layout.Image("telemetry", db, layout.DefaultCodec())
//	data, _ := fs.ReadFile(img, "telemetry/database.yml")
func Image(database string, db *model.Database, codec Codec) (fs.FS, error) {
	img := make(fstest.MapFS)
	base := db.Clone()

	for _, k := range kinds {
		entries := k.entries(base)
		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			data, err := codec.Marshal(entries[name])
			if err != nil {
				return nil, errors.Wrapf(err, "failed to encode %s/%s", k.dir, name)
			}
			if len(data) < codec.MinOverlaySize {
				continue
			}

			img[path.Join(database, k.dir, name+".yml")] = &fstest.MapFile{Data: data, Mode: consts.ModeFile}
			k.remove(base, name)
		}
	}

	data, err := codec.Marshal(base)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s", BaseFile)
	}
	img[path.Join(database, BaseFile)] = &fstest.MapFile{Data: data, Mode: consts.ModeFile}

	return img, nil
}

// Write renders db with Image and writes it below root, replacing any files
// with the same names.
func Write(root, database string, db *model.Database, codec Codec) error {
	img, err := Image(database, db, codec)
	if err != nil {
		return err
	}

	return fs.WalkDir(img, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		data, err := fs.ReadFile(img, p)
		if err != nil {
			return errors.Wrapf(err, "failed to read image file %s", p)
		}

		dst := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(dst), consts.ModeDir); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", dst)
		}
		return errors.Wrapf(os.WriteFile(dst, data, consts.ModeFile), "failed to write %s", dst)
	})
}
