package orchestrator

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/config"
	"github.com/pseudomuto/kustokeeper/pkg/executor"
	"github.com/pseudomuto/kustokeeper/pkg/journal"
	"github.com/pseudomuto/kustokeeper/pkg/kusto"
	"github.com/pseudomuto/kustokeeper/pkg/layout"
	"github.com/pseudomuto/kustokeeper/pkg/metrics"
	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/report"
	"github.com/pseudomuto/kustokeeper/pkg/schema"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Modes.
const (
	ModeDiff  Mode = "diff"
	ModeApply Mode = "apply"
)

type (
	// Mode selects whether a run only reports or also applies.
	Mode string

	// Connection is an open executor for one target.
	Connection interface {
		kusto.Executor
		io.Closer
	}

	// Factory opens a connection to a target.
	Factory func(ctx context.Context, target config.Target) (Connection, error)

	// Params contains the dependencies of an Orchestrator.
	Params struct {
		Config   *config.Config
		Registry *config.Registry
		Factory  Factory

		// Journal records apply results. Defaults to journal.Nop.
		Journal journal.Journal

		Metrics *metrics.Metrics
		Logger  *zap.Logger
	}

	// Orchestrator drives planning and applying across targets.
	Orchestrator struct {
		cfg      *config.Config
		registry *config.Registry
		factory  Factory
		journal  journal.Journal
		metrics  *metrics.Metrics
		logger   *zap.Logger
	}

	// Result is the outcome of a run.
	Result struct {
		// RunID identifies the run in the apply journal.
		RunID uuid.UUID

		// Report is the Markdown document covering every target.
		Report string

		// Valid is false when any target plan contains an invalid script or
		// any target failed.
		Valid bool
	}
)

// DefaultFactory connects to the target URL with the Azure SDK.
func DefaultFactory(_ context.Context, target config.Target) (Connection, error) {
	client, err := kusto.NewClient(target.URL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// New creates an Orchestrator.
func New(p Params) *Orchestrator {
	o := &Orchestrator{
		cfg:      p.Config,
		registry: p.Registry,
		factory:  p.Factory,
		journal:  p.Journal,
		metrics:  p.Metrics,
		logger:   p.Logger,
	}

	if o.cfg == nil {
		o.cfg = config.Default()
	}
	if o.factory == nil {
		o.factory = DefaultFactory
	}
	if o.journal == nil {
		o.journal = journal.Nop{}
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	return o
}

// Run plans (and in ModeApply applies) database on every registry target.
//
// Desired-state load errors abort the run before any target is contacted.
// Errors for an individual target are collected and returned together with
// the result once every target has been processed.
//
// Example:
//
//	res, err := o.Run(ctx, "telemetry", orchestrator.ModeApply)
//	for _, e := range multierr.Errors(err) {
//		log.Println(e)
//	}
func (o *Orchestrator) Run(ctx context.Context, database string, mode Mode) (*Result, error) {
	if mode != ModeDiff && mode != ModeApply {
		return nil, errors.Errorf("unknown mode %q", mode)
	}
	if o.registry == nil || len(o.registry.Clusters) == 0 {
		return nil, errors.New("registry has no clusters")
	}

	desired, err := layout.LoadDir(o.cfg.SchemaDir, database, o.cfg.Codec())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load desired state for %s", database)
	}

	res := &Result{RunID: uuid.New(), Valid: true}
	logger := o.logger.With(zap.String("run", res.RunID.String()), zap.String("database", database))

	var (
		doc  report.Builder
		errs error
	)

	for _, target := range o.registry.Clusters {
		start := time.Now()
		tlog := logger.With(zap.String("target", target.Name))
		tlog.Info("processing target", zap.String("mode", string(mode)))

		r := &run{
			Orchestrator: o,
			runID:        res.RunID,
			target:       target,
			database:     database,
			desired:      desired,
			logger:       tlog,
		}

		valid, err := r.execute(ctx, mode, &doc)
		o.metrics.ObserveTarget(target.Name, string(mode), time.Since(start))

		if err != nil {
			tlog.Error("target failed", zap.Error(err))
			errs = multierr.Append(errs, errors.Wrapf(err, "target %s", target.Name))
			valid = false
		}
		res.Valid = res.Valid && valid
	}

	if err := o.metrics.WriteTextfile(o.cfg.MetricsFile); err != nil {
		logger.Warn("failed to write metrics", zap.Error(err))
	}

	res.Report = doc.String()
	return res, errs
}

// run is the processing of a single target.
type run struct {
	*Orchestrator

	runID    uuid.UUID
	target   config.Target
	database string
	desired  *model.Database
	logger   *zap.Logger
}

func (r *run) execute(ctx context.Context, mode Mode, doc *report.Builder) (bool, error) {
	conn, err := r.factory(ctx, r.target)
	if err != nil {
		return false, errors.Wrap(err, "failed to connect")
	}
	defer func() {
		if err := conn.Close(); err != nil {
			r.logger.Warn("failed to close connection", zap.Error(err))
		}
	}()

	changes, err := r.plan(ctx, conn)
	if err != nil {
		return false, err
	}

	cluster, err := r.planCluster(ctx, conn)
	if err != nil {
		return false, err
	}

	doc.Add(report.Markdown(r.target.Name, r.database, changes))
	if r.target.CapacityPolicy != nil {
		doc.Add(report.Cluster(r.target.Name, cluster))
	}

	valid := report.Valid(changes) && report.ClusterValid(cluster)
	r.logger.Info("planned changes", zap.Int("changes", len(changes)+len(cluster)), zap.Bool("valid", valid))

	if mode == ModeDiff {
		return valid, nil
	}

	exec := executor.New(executor.Config{
		Client:       conn,
		Logger:       r.logger,
		Metrics:      r.metrics,
		PollInterval: r.cfg.Apply.PollInterval,
		MaxPolls:     r.cfg.Apply.MaxPolls,
	})

	results, err := exec.Execute(ctx, append(cluster, changes...), r.database)
	doc.Add(report.Results(r.target.Name, r.database, results))

	entries := journal.Entries(r.runID, r.target.Name, r.database, time.Now().UTC(), results)
	if jerr := r.journal.Record(ctx, entries); jerr != nil {
		r.logger.Warn("failed to record apply journal", zap.Error(jerr))
	}

	return valid, err
}

// plan loads the observed state of the target and compares it with the
// desired state.
func (r *run) plan(ctx context.Context, conn Connection) ([]*schema.Change, error) {
	var changes []*schema.Change

	if r.target.IsFollower() {
		key := r.target.Follower
		desired := r.desired.Followers[key]
		if desired == nil {
			return nil, errors.Errorf("no follower document named %q", key)
		}

		observed, err := kusto.LoadDatabase(ctx, r.database, conn, kusto.FollowerLoader(key))
		if err != nil {
			return nil, err
		}
		changes = schema.PlanFollower(observed.Followers[key], desired, r.database)
	} else {
		observed, err := kusto.LoadDatabase(ctx, r.database, conn, kusto.DefaultLoaders()...)
		if err != nil {
			return nil, err
		}
		changes = schema.Plan(observed, r.desired, r.database)
	}

	r.recordChanges(changes)
	return changes, nil
}

func (r *run) planCluster(ctx context.Context, conn Connection) ([]*schema.Change, error) {
	if r.target.CapacityPolicy == nil {
		return nil, nil
	}

	observed, err := kusto.LoadCapacityPolicy(ctx, r.database, conn)
	if err != nil {
		return nil, err
	}

	changes := schema.PlanCluster(observed, r.target.CapacityPolicy)
	r.recordChanges(changes)
	return changes, nil
}

func (r *run) recordChanges(changes []*schema.Change) {
	for _, c := range changes {
		r.metrics.RecordChange(r.target.Name, string(c.Entity), string(c.Operation), c.Valid())
	}
}
