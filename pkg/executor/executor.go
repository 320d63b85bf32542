package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/kusto"
	"github.com/pseudomuto/kustokeeper/pkg/metrics"
	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/schema"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultPollInterval is the time between async operation status queries.
	DefaultPollInterval = time.Second

	// DefaultMaxPolls bounds how many times an async operation is polled.
	DefaultMaxPolls = 3600

	batchPrefix = ".execute database script with (ContinueOnErrors=true) <|"
)

// ErrPollTimeout is returned when an async operation does not reach a
// terminal state within MaxPolls status queries.
var ErrPollTimeout = errors.New("timed out waiting for async operation")

type (
	// Executor applies changes through a kusto.Executor.
	Executor struct {
		client       kusto.Executor
		logger       *zap.Logger
		metrics      *metrics.Metrics
		pollInterval time.Duration
		maxPolls     int
	}

	// Config contains configuration options for creating a new Executor.
	Config struct {
		// Client submits commands. Required.
		Client kusto.Executor

		// Logger receives progress output. Defaults to a no-op logger.
		Logger *zap.Logger

		// Metrics records batches, polls and script outcomes. Optional.
		Metrics *metrics.Metrics

		// PollInterval is the fixed delay between status queries for async
		// operations. Defaults to DefaultPollInterval.
		PollInterval time.Duration

		// MaxPolls is the number of status queries after which an async
		// operation is considered timed out. Defaults to DefaultMaxPolls.
		MaxPolls int
	}

	// ScriptError describes a script the cluster reported as failed.
	ScriptError struct {
		Result *model.ExecutionResult
	}
)

// New creates an Executor, filling unset options with their defaults.
func New(cfg Config) *Executor {
	e := &Executor{
		client:       cfg.Client,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		pollInterval: cfg.PollInterval,
		maxPolls:     cfg.MaxPolls,
	}

	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.pollInterval <= 0 {
		e.pollInterval = DefaultPollInterval
	}
	if e.maxPolls <= 0 {
		e.maxPolls = DefaultMaxPolls
	}

	return e
}

// Execute applies the valid scripts of changes to database and returns one
// result per applied script, in submission order.
//
// When any script fails the returned error describes every failure: a
// single failure is returned as a *ScriptError, several are combined with
// multierr (see multierr.Errors). Results are returned alongside the error.
//
// Example:
//
//	results, err := exec.Execute(ctx, schema.Plan(observed, desired, "telemetry"), "telemetry")
//	for _, e := range multierr.Errors(err) {
//		log.Println(e)
//	}
func (e *Executor) Execute(ctx context.Context, changes []*schema.Change, database string) ([]*model.ExecutionResult, error) {
	var (
		results []*model.ExecutionResult
		pending []schema.Script
	)

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}

		batch, err := e.submitBatch(ctx, database, pending)
		pending = nil
		results = append(results, batch...)
		return err
	}

	// Failures reported before the run stopped are kept alongside the cause.
	abort := func(err error) ([]*model.ExecutionResult, error) {
		return results, multierr.Append(failures(results), err)
	}

	for _, script := range schema.Scripts(changes) {
		if !script.IsAsync {
			pending = append(pending, script)
			continue
		}

		if err := flush(); err != nil {
			return abort(err)
		}

		res, err := e.submitAsync(ctx, database, script)
		if err != nil {
			return abort(err)
		}
		results = append(results, res)
	}

	if err := flush(); err != nil {
		return abort(err)
	}

	return results, failures(results)
}

// submitBatch runs scripts as one continue-on-error script submission.
func (e *Executor) submitBatch(ctx context.Context, database string, scripts []schema.Script) ([]*model.ExecutionResult, error) {
	texts := make([]string, len(scripts))
	for i, s := range scripts {
		texts[i] = s.Text
	}

	e.logger.Info("submitting batch", zap.String("database", database), zap.Int("scripts", len(scripts)))
	e.metrics.RecordBatch()

	res, err := e.client.Mgmt(ctx, database, batchPrefix+"\n"+strings.Join(texts, "\n\n"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to submit batch of %d scripts to %s", len(scripts), database)
	}

	results := make([]*model.ExecutionResult, 0, res.Len())
	for i := 0; i < res.Len(); i++ {
		row := res.Row(i)
		r := &model.ExecutionResult{
			OperationID: row.String("OperationId"),
			CommandType: row.String("CommandType"),
			Result:      model.OperationState(row.String("Result")),
			Reason:      row.String("Reason"),
			CommandText: row.String("CommandText"),
		}

		// The cluster echoes a normalized command; keep the submitted text.
		if res.Len() == len(scripts) {
			r.CommandText = scripts[i].Text
		}

		e.record(r)
		results = append(results, r)
	}

	return results, nil
}

// submitAsync submits a single async script and waits for its operation.
func (e *Executor) submitAsync(ctx context.Context, database string, script schema.Script) (*model.ExecutionResult, error) {
	e.logger.Info("submitting async script", zap.String("database", database), zap.String("category", script.Category))

	res, err := e.client.Mgmt(ctx, database, script.Text)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to submit async %s script to %s", script.Category, database)
	}

	id := res.Scalar()
	if res.Column("OperationId") >= 0 && res.Len() > 0 {
		id = res.Row(0).String("OperationId")
	}
	if id == "" {
		return nil, errors.Errorf("async %s script returned no operation id", script.Category)
	}

	r, err := e.poll(ctx, database, id)
	if err != nil {
		return nil, err
	}

	r.CommandText = script.Text
	e.record(r)
	return r, nil
}

// poll queries the operation state at a fixed interval until it is terminal.
func (e *Executor) poll(ctx context.Context, database, id string) (*model.ExecutionResult, error) {
	limiter := rate.NewLimiter(rate.Every(e.pollInterval), 1)
	query := ".show operations " + id

	for i := 0; i < e.maxPolls; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, errors.Wrapf(err, "stopped polling operation %s", id)
		}

		e.metrics.RecordPoll()
		res, err := e.client.Mgmt(ctx, database, query)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to query operation %s", id)
		}
		if res.Len() == 0 {
			continue
		}

		row := res.Row(0)
		state := model.OperationState(row.String("State"))
		if !state.IsTerminal() {
			e.logger.Debug("operation in progress", zap.String("operation", id), zap.String("state", string(state)))
			continue
		}

		return &model.ExecutionResult{
			OperationID: id,
			CommandType: row.String("Operation"),
			Result:      state,
			Reason:      row.String("Status"),
		}, nil
	}

	return nil, errors.Wrapf(ErrPollTimeout, "operation %s after %d polls", id, e.maxPolls)
}

func (e *Executor) record(r *model.ExecutionResult) {
	e.metrics.RecordScript(string(r.Result))

	if r.Failed() {
		e.logger.Error("script failed",
			zap.String("operation", r.OperationID),
			zap.String("state", string(r.Result)),
			zap.String("reason", r.Reason),
		)
		return
	}

	e.logger.Debug("script applied", zap.String("operation", r.OperationID), zap.String("type", r.CommandType))
}

func failures(results []*model.ExecutionResult) error {
	var err error
	for _, r := range results {
		if r.Failed() {
			err = multierr.Append(err, &ScriptError{Result: r})
		}
	}
	return err
}

func (e *ScriptError) Error() string {
	text := e.Result.CommandText
	if first, _, found := strings.Cut(text, "\n"); found {
		text = first + " ..."
	}

	if e.Result.Reason == "" {
		return fmt.Sprintf("%s: %s", e.Result.Result, text)
	}
	return fmt.Sprintf("%s: %s: %s", e.Result.Result, text, e.Result.Reason)
}
