package dag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SuramyaVimal/dag-cd/internal/ctxlog"
	"github.com/SuramyaVimal/dag-cd/internal/tac"
)

// valueKey is the value number of a binary computation. Operand order is
// kept as written.
type valueKey struct {
	op          tac.Operator
	left, right NodeID
}

// Builder turns instructions into a Graph one at a time. It owns all the
// state a build needs, so independent builders never interfere.
type Builder struct {
	graph  *Graph
	values map[valueKey]NodeID
	leaves map[string]NodeID
	logger *slog.Logger
}

// NewBuilder returns a builder over an empty graph.
func NewBuilder(ctx context.Context) *Builder {
	return &Builder{
		graph:  New(),
		values: make(map[valueKey]NodeID),
		leaves: make(map[string]NodeID),
		logger: ctxlog.FromContext(ctx),
	}
}

// Build constructs the graph for instructions in source order. It cannot
// fail on parsed instructions; an empty list gives an empty graph.
func Build(ctx context.Context, instructions []tac.Instruction) *Graph {
	b := NewBuilder(ctx)
	b.logger.Debug("Build: Starting graph construction.", "instruction_count", len(instructions))
	for _, in := range instructions {
		b.Add(in)
	}
	g := b.Graph()
	b.logger.Debug("Build: Graph construction successful.",
		"node_count", g.Len(), "edge_count", len(g.Edges()), "cse_entries", len(b.values))
	return g
}

// Graph returns the graph built so far.
func (b *Builder) Graph() *Graph {
	return b.graph
}

// Add applies one instruction.
func (b *Builder) Add(in tac.Instruction) {
	if in.IsCopy() {
		src := b.resolve(in.Operands[0], in.Index)
		b.bind(in.Target, src)
		b.logger.Debug("Build: Bound alias.", "target", in.Target, "node_id", src)
		return
	}

	left := b.resolve(in.Operands[0], in.Index)
	right := b.resolve(in.Operands[1], in.Index)
	key := valueKey{op: in.Operator, left: left, right: right}

	op, hit := b.values[key]
	if hit {
		b.logger.Debug("Build: Reused common subexpression.", "target", in.Target, "op", in.Operator, "node_id", op)
	} else {
		op = b.add(Node{
			Kind:  KindOperator,
			Label: string(in.Operator),
			Op:    in.Operator,
			Left:  left,
			Right: right,
			Index: in.Index,
		})
		b.link(left, op)
		b.link(right, op)
		b.values[key] = op
	}

	res := b.add(Node{Kind: KindResult, Label: in.Target, Index: in.Index})
	b.link(op, res)
	b.bind(in.Target, res)
}

// resolve returns the node an operand refers to: the current binding for an
// assigned variable, or a memoized leaf otherwise.
func (b *Builder) resolve(ref tac.Operand, index int) NodeID {
	if ref.Kind == tac.Variable {
		if id, ok := b.graph.Binding(ref.Text); ok {
			return id
		}
	}
	if id, ok := b.leaves[ref.Text]; ok {
		return id
	}
	id := b.add(Node{Kind: KindLeaf, Label: ref.Text, Operand: ref, Index: index})
	b.leaves[ref.Text] = id
	return id
}

// The helpers below panic because their errors would mean the builder broke
// its own id or edge bookkeeping.

func (b *Builder) add(n Node) NodeID {
	n.ID = NodeID(b.graph.Len())
	id, err := b.graph.AddNode(n)
	if err != nil {
		panic(fmt.Sprintf("dag: builder: %v", err))
	}
	return id
}

func (b *Builder) link(from, to NodeID) {
	if err := b.graph.AddEdge(from, to); err != nil {
		panic(fmt.Sprintf("dag: builder: %v", err))
	}
}

func (b *Builder) bind(name string, id NodeID) {
	if err := b.graph.Bind(name, id); err != nil {
		panic(fmt.Sprintf("dag: builder: %v", err))
	}
}
