// Package pipeline runs Parse → Build → Schedule over one input text and,
// when configured, memoizes the outcome in a content-addressed cache.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/SuramyaVimal/dag-cd/internal/cache"
	"github.com/SuramyaVimal/dag-cd/internal/ctxlog"
	"github.com/SuramyaVimal/dag-cd/internal/dag"
	"github.com/SuramyaVimal/dag-cd/internal/export"
	"github.com/SuramyaVimal/dag-cd/internal/scheduler"
	"github.com/SuramyaVimal/dag-cd/internal/tac"
)

// ErrEmptyGraph names the outcome of an input without instructions. Analyze
// never returns it; callers that treat "nothing to schedule" as a distinct
// exit path can use it.
var ErrEmptyGraph = errors.New(export.NothingToSchedule)

// Result is the outcome of one analysis. It is read-only.
type Result struct {
	Source      string
	Key         string
	Program     *tac.Program
	Diagnostics tac.Diagnostics
	Graph       *dag.Graph
	Optimal     []dag.NodeID
	Heuristic   []dag.NodeID
	// Cached is true when the result was restored from the cache.
	Cached bool
}

// Empty reports whether the input had no usable instructions.
func (r *Result) Empty() bool {
	return r.Program.Empty()
}

// Document returns the export form of the result.
func (r *Result) Document() *export.Document {
	return export.FromResult(r.Source, r.Program, r.Diagnostics, r.Graph, r.Optimal, r.Heuristic)
}

// OptimalLabels returns the display names of the optimal sequence.
func (r *Result) OptimalLabels() []string {
	return scheduler.Labels(r.Graph, r.Optimal)
}

// HeuristicLabels returns the display names of the heuristic sequence.
func (r *Result) HeuristicLabels() []string {
	return scheduler.Labels(r.Graph, r.Heuristic)
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithParser replaces the default parser.
func WithParser(p *tac.Parser) Option {
	return func(a *Analyzer) {
		if p != nil {
			a.parser = p
		}
	}
}

// WithCache enables memoization. A nil cache disables it.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// Analyzer runs the pipeline. It is safe for concurrent use; every call
// builds its own graph.
type Analyzer struct {
	parser *tac.Parser
	cache  *cache.Cache
}

// New returns an Analyzer with the default parser and no cache.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{parser: tac.NewParser()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Parser returns the parser in use.
func (a *Analyzer) Parser() *tac.Parser {
	return a.parser
}

// Analyze parses, builds and schedules source. Malformed lines end up in
// Result.Diagnostics. The only error is a scheduling failure, which wraps
// dag.ErrCycleDetected, or a cancelled context.
func (a *Analyzer) Analyze(ctx context.Context, source string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, logger := ctxlog.With(ctx, "component", "pipeline")
	key := cache.Key(a.parser.Fingerprint(), source)

	if a.cache != nil {
		if doc, ok := a.cache.Get(ctx, key, source); ok {
			res, err := fromDocument(key, doc)
			if err == nil {
				logger.Debug("Analyze: Restored result from cache.", "key", key)
				return res, nil
			}
			logger.Warn("Analyze: Cached entry is invalid, recomputing.", "key", key, "error", err)
		}
	}

	prog, diags := a.parser.Parse(source)
	for _, d := range diags {
		logger.Warn("Skipped invalid line.", "line", d.Line, "text", d.Raw, "reason", string(d.Reason))
	}

	res := &Result{
		Source:      source,
		Key:         key,
		Program:     prog,
		Diagnostics: diags,
	}
	if prog.Empty() {
		logger.Info("Analyze: No instructions found.", "diagnostics", len(diags))
		res.Graph = dag.New()
		res.Optimal = []dag.NodeID{}
		res.Heuristic = []dag.NodeID{}
		return res, nil
	}

	res.Graph = dag.Build(ctx, prog.Instructions)

	optimal, err := scheduler.Optimal(res.Graph)
	if err != nil {
		return nil, fmt.Errorf("computing optimal sequence: %w", err)
	}
	heuristic, err := scheduler.Heuristic(res.Graph)
	if err != nil {
		return nil, fmt.Errorf("computing heuristic sequence: %w", err)
	}
	res.Optimal, res.Heuristic = optimal, heuristic

	logger.Debug("Analyze: Finished.",
		"instructions", prog.Len(), "nodes", res.Graph.Len(), "results", len(optimal))

	if a.cache != nil {
		a.cache.Put(ctx, key, res.Document())
	}
	return res, nil
}

// fromDocument restores a Result from its cached document.
func fromDocument(key string, doc *export.Document) (*Result, error) {
	g, err := doc.Graph()
	if err != nil {
		return nil, err
	}
	optimal := doc.Optimal.NodeIDs()
	heuristic := doc.Heuristic.NodeIDs()
	for _, id := range append(append([]dag.NodeID(nil), optimal...), heuristic...) {
		if _, ok := g.Node(id); !ok {
			return nil, fmt.Errorf("sequence references unknown node %d", id)
		}
	}
	return &Result{
		Source:      doc.Source,
		Key:         key,
		Program:     doc.Program(),
		Diagnostics: doc.ParserDiagnostics(),
		Graph:       g,
		Optimal:     optimal,
		Heuristic:   heuristic,
		Cached:      true,
	}, nil
}
