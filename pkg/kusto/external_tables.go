package kusto

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/utils"
)

type externalProperties struct {
	Format                       string
	Compressed                   bool
	FileExtension                string
	NamePrefix                   string
	TargetEntityName             string
	TargetEntityConnectionString string
	SQLDialect                   string
	CreateIfNotExists            bool
	FireTriggers                 bool
}

func loadExternalTables(ctx context.Context, db *model.Database, database string, exec Executor) error {
	res, err := exec.Mgmt(ctx, database, ".show external tables")
	if err != nil {
		return err
	}

	overlay := model.New()
	err = res.Each(func(row Row) error {
		name := row.String("TableName")

		var props externalProperties
		if _, err := row.JSON("Properties", &props); err != nil {
			return errors.Wrapf(err, "external table %s", name)
		}

		var conns []string
		if _, err := row.JSON("ConnectionStrings", &conns); err != nil {
			return errors.Wrapf(err, "external table %s", name)
		}

		et := &model.ExternalTable{
			Kind:          externalKind(row.String("TableType")),
			Folder:        row.String("Folder"),
			DocString:     row.String("DocString"),
			PathFormat:    row.String("PathFormat"),
			DataFormat:    props.Format,
			Compressed:    props.Compressed,
			FileExtension: props.FileExtension,
			NamePrefix:    props.NamePrefix,
		}

		if et.Kind == model.ExternalKindSQL {
			et.SQLTable = props.TargetEntityName
			et.SQLDialect = props.SQLDialect
			et.CreateIfNotExists = props.CreateIfNotExists
			et.FireTriggers = props.FireTriggers
			if len(conns) == 0 && props.TargetEntityConnectionString != "" {
				conns = []string{props.TargetEntityConnectionString}
			}
		}
		et.ConnectionStrings = conns

		overlay.ExternalTables[name] = et
		return nil
	})
	if err != nil {
		return err
	}

	for name, et := range overlay.ExternalTables {
		res, err := optional(exec.Mgmt(ctx, database, fmt.Sprintf(".show external table %s cslschema", utils.QuoteIdentifier(name))))
		if err != nil {
			return err
		}
		if res.Len() > 0 {
			et.Schema = parseSchema(res.Row(0).String("Schema"))
		}
	}

	fold(db, overlay)
	return nil
}

func externalKind(tableType string) string {
	switch strings.ToLower(tableType) {
	case "sql":
		return model.ExternalKindSQL
	case "delta":
		return model.ExternalKindDelta
	default:
		return model.ExternalKindStorage
	}
}
