// Package engine resolves chains of derived attributes on demand.
//
// Given a catalog of derived-attribute definitions and an initial fact
// context, EvaluateChain computes a requested set of targets by recursively
// resolving dependencies first, parsing and evaluating each attribute's
// governing rule, and memoizing every result in the fact context so an
// attribute is computed at most once per run.
package engine

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/derivo/derivo-go/eval"
	"github.com/derivo/derivo-go/facts"
	"github.com/derivo/derivo-go/parser"
	"github.com/derivo/derivo-go/value"
)

const defaultMaxDepth = 500

// Engine resolves derived attributes against a read-only catalog. An Engine
// is safe for concurrent use: each EvaluateChain call owns its fact context
// exclusively and the catalog is never mutated.
type Engine struct {
	catalog   *Catalog
	log       *zap.Logger
	maxDepth  int
	onResolve func(name string)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithMaxDepth bounds the dependency chain length of a single resolution.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// WithOnResolve registers a callback invoked once per computed attribute.
// Memoized hits do not fire it.
func WithOnResolve(fn func(name string)) Option {
	return func(e *Engine) {
		e.onResolve = fn
	}
}

// New creates an engine over the given catalog.
func New(catalog *Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:  catalog,
		log:      zap.NewNop(),
		maxDepth: defaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateChain resolves every target attribute and returns the final fact
// context: the initial facts plus every newly computed attribute. The input
// facts are not modified. The first error aborts the whole call; errors are
// wrapped with the attribute they arose on.
func (e *Engine) EvaluateChain(targets []string, initial *facts.Facts) (*facts.Facts, error) {
	fs := initial.Clone()
	log := e.log.With(zap.String("run_id", uuid.NewString()))
	log.Debug("starting resolution",
		zap.Strings("targets", targets),
		zap.Int("initial_facts", fs.Len()))

	r := &run{engine: e, facts: fs, log: log, resolving: make(map[string]bool)}
	for _, target := range targets {
		if err := r.resolve(target, nil); err != nil {
			log.Debug("resolution failed", zap.String("target", target), zap.Error(err))
			return nil, err
		}
	}

	log.Debug("resolution complete", zap.Int("facts", fs.Len()))
	return fs, nil
}

// run is the state of one EvaluateChain call: the fact context being filled
// and the set of attributes currently being resolved, used to detect cycles.
type run struct {
	engine    *Engine
	facts     *facts.Facts
	log       *zap.Logger
	resolving map[string]bool
}

func (r *run) resolve(name string, path []string) error {
	// Memoization: an attribute already present is never recomputed.
	if r.facts.Has(name) {
		return nil
	}
	if r.resolving[name] {
		return &CycleError{Path: cyclePath(path, name)}
	}
	if len(path) >= r.engine.maxDepth {
		return fmt.Errorf("attribute %q: %w", name, ErrDepthExceeded)
	}

	def, ok := r.engine.catalog.Lookup(name)
	if !ok {
		return fmt.Errorf("attribute %q: %w", name, ErrDefinitionNotFound)
	}

	r.resolving[name] = true
	defer delete(r.resolving, name)

	path = append(path, name)
	for _, dep := range def.Dependencies {
		if err := r.resolve(dep, path); err != nil {
			return err
		}
	}

	result, err := r.apply(def)
	if err != nil {
		return fmt.Errorf("attribute %q: %w", name, err)
	}

	r.facts.Set(name, result)
	if r.engine.onResolve != nil {
		r.engine.onResolve(name)
	}
	r.log.Debug("resolved attribute",
		zap.String("attribute", name),
		zap.Stringer("value", result))
	return nil
}

// apply evaluates the attribute's first rule against the current facts.
func (r *run) apply(def DerivedAttribute) (value.Value, error) {
	if len(def.Rules) == 0 {
		return value.Value{}, ErrMissingThenClause
	}
	rule := def.Rules[0]

	hold := true
	if rule.Condition != "" {
		cond, err := r.evalSource(rule.Condition)
		if err != nil {
			return value.Value{}, fmt.Errorf("condition: %w", err)
		}
		// A non-boolean condition result counts as false.
		hold = cond.Kind() == value.KindBoolean && cond.Bool()
	}

	if hold {
		if rule.Value == "" {
			return value.Value{}, ErrMissingThenClause
		}
		v, err := r.evalSource(rule.Value)
		if err != nil {
			return value.Value{}, fmt.Errorf("value: %w", err)
		}
		return v, nil
	}

	if rule.Otherwise == "" {
		return value.Value{}, ErrMissingOtherwiseClause
	}
	v, err := r.evalSource(rule.Otherwise)
	if err != nil {
		return value.Value{}, fmt.Errorf("otherwise: %w", err)
	}
	return v, nil
}

func (r *run) evalSource(source string) (value.Value, error) {
	expr, err := parser.Parse(source)
	if err != nil {
		return value.Value{}, err
	}
	return eval.Evaluate(expr, r.facts)
}

// cyclePath trims the resolution path to the cycle itself: from the first
// appearance of name through to its repetition.
func cyclePath(path []string, name string) []string {
	for i, p := range path {
		if p == name {
			return append(append([]string{}, path[i:]...), name)
		}
	}
	return append(append([]string{}, path...), name)
}
