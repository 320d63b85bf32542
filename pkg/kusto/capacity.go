package kusto

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/model"
)

// LoadCapacityPolicy reads the cluster capacity policy. A cluster without an
// explicit policy yields an empty policy.
func LoadCapacityPolicy(ctx context.Context, database string, exec Executor) (*model.CapacityPolicy, error) {
	res, err := optional(exec.Mgmt(ctx, database, ".show cluster policy capacity"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load capacity policy")
	}

	policy := &model.CapacityPolicy{}
	if res.Len() == 0 {
		return policy, nil
	}

	if _, err := res.Row(0).JSON("Policy", policy); err != nil {
		return nil, err
	}
	return policy, nil
}
