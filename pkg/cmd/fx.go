package cmd

import (
	"github.com/pseudomuto/kustokeeper/pkg/orchestrator"
	"go.uber.org/fx"
)

var Module = fx.Module("cli",
	fx.Provide(
		func() orchestrator.Factory { return orchestrator.DefaultFactory },
		fx.Annotate(apply, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(diff, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(export, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)
