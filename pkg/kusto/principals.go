package kusto

import (
	"context"
	"fmt"
	"strings"

	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/utils"
)

// roleSuffixes maps the trailing word of a database role name (e.g.
// "Database telemetry Admin") to a role. Longer suffixes come first so
// "Unrestricted Viewer" is not read as "Viewer".
var roleSuffixes = []struct {
	suffix string
	role   string
}{
	{suffix: "unrestrictedviewer", role: model.RoleUnrestrictedViewers},
	{suffix: "viewer", role: model.RoleViewers},
	{suffix: "admin", role: model.RoleAdmins},
	{suffix: "user", role: model.RoleUsers},
	{suffix: "ingestor", role: model.RoleIngestors},
	{suffix: "monitor", role: model.RoleMonitors},
}

func roleOf(role string) (string, bool) {
	r := strings.ToLower(strings.ReplaceAll(role, " ", ""))
	if strings.HasPrefix(r, "alldatabases") {
		return "", false
	}

	for _, s := range roleSuffixes {
		if strings.HasSuffix(r, s.suffix) {
			return s.role, true
		}
	}
	return "", false
}

// loadPrincipals reads the database role assignments. It runs after the
// entity loaders and only touches the principal lists.
func loadPrincipals(ctx context.Context, db *model.Database, database string, exec Executor) error {
	res, err := exec.Mgmt(ctx, database, fmt.Sprintf(".show database %s principals", utils.QuoteIdentifier(database)))
	if err != nil {
		return err
	}

	overlay := model.New()
	_ = res.Each(func(row Row) error {
		role, ok := roleOf(row.String("Role"))
		if !ok {
			return nil
		}

		id := row.String("PrincipalFQN")
		if id == "" {
			return nil
		}

		list := overlay.RolePrincipals(role)
		*list = append(*list, model.Principal{ID: id, Name: row.String("PrincipalDisplayName")})
		return nil
	})

	fold(db, overlay)
	return nil
}
