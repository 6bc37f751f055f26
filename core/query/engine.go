// Package query implements a small declarative query engine over in-memory
// record collections. Callers build transformations with the operation
// factories (Select, FilterIn, SortBy, Format, Limit, Or, And, Where) and hand
// them to Query in any order; the engine reorders them by a fixed priority
// table and folds them over a copy of the input.
package query

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/asaidimu/go-lego/core/record"
)

// EngineOptions configures an Engine.
type EngineOptions struct {
	// Logger receives debug output for every step and errors for failed
	// queries. Defaults to a no-op logger.
	Logger *zap.Logger
	// DisableEvents turns off the query event bus.
	DisableEvents bool
}

// DefaultEngineOptions returns the options used when none are given.
func DefaultEngineOptions() *EngineOptions {
	return &EngineOptions{
		Logger: zap.NewNop(),
	}
}

// Engine runs query pipelines. It holds the formatter registry used by
// compiled DSL queries and the event bus queries report to. An Engine is safe
// for concurrent use.
type Engine struct {
	formatters    map[string]Formatter
	mu            sync.RWMutex
	logger        *zap.Logger
	bus           *events.TypedEventBus[QueryEvent]
	subscriptions map[string]*SubscriptionInfo
	subMu         sync.RWMutex
}

// defaultEngine backs the package-level Query function.
var defaultEngine = newEngine(zap.NewNop(), nil)

// NewEngine creates a new Engine.
func NewEngine(options *EngineOptions) (*Engine, error) {
	if options == nil {
		options = DefaultEngineOptions()
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var bus *events.TypedEventBus[QueryEvent]
	if !options.DisableEvents {
		var err error
		bus, err = events.NewTypedEventBus[QueryEvent](events.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("could not initialize event bus: %w", err)
		}
	}
	return newEngine(logger, bus), nil
}

func newEngine(logger *zap.Logger, bus *events.TypedEventBus[QueryEvent]) *Engine {
	return &Engine{
		formatters:    make(map[string]Formatter),
		logger:        logger,
		bus:           bus,
		subscriptions: make(map[string]*SubscriptionInfo),
	}
}

// Query applies ops to a copy of collection using a shared engine without
// logging or events. The caller's records are never modified.
func Query(collection record.Collection, ops ...Transformation) (record.Collection, error) {
	return defaultEngine.Query(context.Background(), collection, ops...)
}

// RegisterFormatter registers a formatter that compiled queries can refer to by name.
func (e *Engine) RegisterFormatter(name string, fn Formatter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.formatters[name] = fn
	e.logger.Info("Registered formatter", zap.String("name", name))
}

// RegisterFormatters registers multiple formatters from a map.
func (e *Engine) RegisterFormatters(formatters map[string]Formatter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for name, fn := range formatters {
		e.formatters[name] = fn
		e.logger.Info("Registered formatter", zap.String("name", name))
	}
}

func (e *Engine) formatter(name string) (Formatter, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn, ok := e.formatters[name]
	return fn, ok
}

// Query runs ops over a copy of collection and returns the result.
//
// The transformations are stable-sorted by the priority of their kind, so the
// order the caller passes them in does not matter, and then applied one after
// the other. Any error aborts the whole pipeline and no partial result is
// returned.
func (e *Engine) Query(ctx context.Context, collection record.Collection, ops ...Transformation) (record.Collection, error) {
	return e.run(ctx, uuid.New().String(), collection, ops)
}

// QuerySource loads the collection from src and runs ops over it.
func (e *Engine) QuerySource(ctx context.Context, src Source, ops ...Transformation) (record.Collection, error) {
	collection, err := src.Collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	return e.Query(ctx, collection, ops...)
}

// Execute compiles dsl and runs it over collection.
func (e *Engine) Execute(ctx context.Context, collection record.Collection, dsl *QueryDSL) (*QueryResult, error) {
	ops, err := e.Compile(dsl)
	if err != nil {
		return nil, err
	}
	queryID := uuid.New().String()
	data, err := e.run(ctx, queryID, collection, ops)
	if err != nil {
		return nil, err
	}
	return &QueryResult{QueryID: queryID, Data: data, Count: len(data)}, nil
}

func (e *Engine) run(ctx context.Context, queryID string, collection record.Collection, ops []Transformation) (record.Collection, error) {
	startTime := time.Now()
	logger := e.logger.With(zap.String("query_id", queryID))

	start := newQueryEvent(QueryStart, queryID, time.Time{})
	start.Input = len(collection)
	e.emit(start)

	fail := func(err error) (record.Collection, error) {
		logger.Error("Query failed", zap.Error(err))
		errStr := err.Error()
		failed := newQueryEvent(QueryFailed, queryID, startTime)
		failed.Input = len(collection)
		failed.Error = &errStr
		e.emit(failed)
		return nil, err
	}

	ordered, err := orderTransformations(ops)
	if err != nil {
		return fail(err)
	}

	working := record.CloneCollection(collection)
	for _, op := range ordered {
		if err := ctx.Err(); err != nil {
			return fail(fmt.Errorf("query cancelled before %s: %w", op.Kind(), err))
		}

		in := len(working)
		next, err := op.Apply(working)
		if err != nil {
			return fail(fmt.Errorf("%s failed: %w", op.Kind(), err))
		}
		if next == nil {
			next = record.Collection{}
		}
		working = next

		logger.Debug("Applied transformation",
			zap.String("kind", string(op.Kind())),
			zap.Int("input", in),
			zap.Int("output", len(working)),
		)
		step := newQueryEvent(QueryStep, queryID, startTime)
		step.Kind = op.Kind()
		step.Input = in
		step.Output = len(working)
		e.emit(step)
	}

	success := newQueryEvent(QuerySuccess, queryID, startTime)
	success.Input = len(collection)
	success.Output = len(working)
	e.emit(success)
	logger.Debug("Query finished", zap.Int("steps", len(ordered)), zap.Int("count", len(working)))

	return working, nil
}

// orderTransformations returns ops stable-sorted by priority. A kind missing
// from the priority table is an error rather than an arbitrary position.
func orderTransformations(ops []Transformation) ([]Transformation, error) {
	type ranked struct {
		op       Transformation
		priority int
	}

	ranks := make([]ranked, len(ops))
	for i, op := range ops {
		p, ok := Priority(op.Kind())
		if !ok {
			return nil, &OperationError{
				Kind:   op.Kind(),
				Reason: fmt.Sprintf("transformation %d has no priority", i),
				Err:    ErrUnknownOperation,
			}
		}
		ranks[i] = ranked{op: op, priority: p}
	}

	slices.SortStableFunc(ranks, func(a, b ranked) int {
		return cmp.Compare(a.priority, b.priority)
	})

	ordered := make([]Transformation, len(ranks))
	for i, r := range ranks {
		ordered[i] = r.op
	}
	return ordered, nil
}
