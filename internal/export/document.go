// Package export turns an analysis into a self-contained Document and writes
// it as JSON, msgpack, Graphviz DOT or plain text. A Document carries enough
// to rebuild the graph, the program and the diagnostics exactly.
package export

import (
	"fmt"

	"github.com/SuramyaVimal/dag-cd/internal/dag"
	"github.com/SuramyaVimal/dag-cd/internal/tac"
)

// Document is the outward form of one analysis.
type Document struct {
	Source       string              `json:"source" msgpack:"source"`
	Instructions []InstructionRecord `json:"instructions" msgpack:"instructions"`
	Nodes        []NodeRecord        `json:"nodes" msgpack:"nodes"`
	Edges        []EdgeRecord        `json:"edges" msgpack:"edges"`
	Bindings     map[string]int      `json:"bindings" msgpack:"bindings"`
	Optimal      Sequence            `json:"optimal" msgpack:"optimal"`
	Heuristic    Sequence            `json:"heuristic" msgpack:"heuristic"`
	Diagnostics  []DiagnosticRecord  `json:"diagnostics" msgpack:"diagnostics"`
	Empty        bool                `json:"empty" msgpack:"empty"`
}

// InstructionRecord is one accepted instruction.
type InstructionRecord struct {
	Index    int      `json:"index" msgpack:"index"`
	Line     int      `json:"line" msgpack:"line"`
	Target   string   `json:"target" msgpack:"target"`
	Operator string   `json:"operator,omitempty" msgpack:"operator,omitempty"`
	Operands []string `json:"operands" msgpack:"operands"`
	Text     string   `json:"text" msgpack:"text"`
}

// NodeRecord is one graph node. Left and Right are only set for operators.
type NodeRecord struct {
	ID    int    `json:"id" msgpack:"id"`
	Label string `json:"label" msgpack:"label"`
	Kind  string `json:"kind" msgpack:"kind"`
	Name  string `json:"name" msgpack:"name"`
	Index int    `json:"index" msgpack:"index"`
	Left  *int   `json:"left,omitempty" msgpack:"left,omitempty"`
	Right *int   `json:"right,omitempty" msgpack:"right,omitempty"`
}

// EdgeRecord is a directed edge, target consumes source.
type EdgeRecord struct {
	Source int `json:"source" msgpack:"source"`
	Target int `json:"target" msgpack:"target"`
}

// Sequence is an ordering by id with matching display names.
type Sequence struct {
	IDs    []int    `json:"ids" msgpack:"ids"`
	Labels []string `json:"labels" msgpack:"labels"`
}

// DiagnosticRecord is one skipped line.
type DiagnosticRecord struct {
	Line   int    `json:"line" msgpack:"line"`
	Raw    string `json:"raw" msgpack:"raw"`
	Reason string `json:"reason" msgpack:"reason"`
	Detail string `json:"detail,omitempty" msgpack:"detail,omitempty"`
	Offset int    `json:"offset" msgpack:"offset"`
}

// FromResult assembles a Document. prog and g may be nil for an empty input.
func FromResult(source string, prog *tac.Program, diags tac.Diagnostics, g *dag.Graph, optimal, heuristic []dag.NodeID) *Document {
	doc := &Document{
		Source:       source,
		Instructions: []InstructionRecord{},
		Nodes:        []NodeRecord{},
		Edges:        []EdgeRecord{},
		Bindings:     map[string]int{},
		Diagnostics:  []DiagnosticRecord{},
		Empty:        prog.Empty(),
	}

	if prog != nil {
		for _, in := range prog.Instructions {
			rec := InstructionRecord{
				Index:    in.Index,
				Line:     in.Line,
				Target:   in.Target,
				Operator: string(in.Operator),
				Text:     in.String(),
			}
			for _, op := range in.Operands {
				rec.Operands = append(rec.Operands, op.Text)
			}
			doc.Instructions = append(doc.Instructions, rec)
		}
	}

	for _, d := range diags {
		doc.Diagnostics = append(doc.Diagnostics, DiagnosticRecord{
			Line:   d.Line,
			Raw:    d.Raw,
			Reason: string(d.Reason),
			Detail: d.Detail,
			Offset: d.Offset,
		})
	}

	if g != nil {
		for _, n := range g.Nodes() {
			rec := NodeRecord{
				ID:    int(n.ID),
				Label: n.Label,
				Kind:  n.Kind.String(),
				Name:  n.Name(),
				Index: n.Index,
			}
			if n.Kind == dag.KindOperator {
				left, right := int(n.Left), int(n.Right)
				rec.Left, rec.Right = &left, &right
			}
			doc.Nodes = append(doc.Nodes, rec)
		}
		for _, e := range g.Edges() {
			doc.Edges = append(doc.Edges, EdgeRecord{Source: int(e.From), Target: int(e.To)})
		}
		for name, id := range g.Bindings() {
			doc.Bindings[name] = int(id)
		}
	}

	doc.Optimal = newSequence(doc, optimal)
	doc.Heuristic = newSequence(doc, heuristic)
	return doc
}

func newSequence(doc *Document, ids []dag.NodeID) Sequence {
	seq := Sequence{IDs: make([]int, len(ids)), Labels: make([]string, len(ids))}
	for i, id := range ids {
		seq.IDs[i] = int(id)
		if int(id) >= 0 && int(id) < len(doc.Nodes) {
			seq.Labels[i] = doc.Nodes[id].Name
		}
	}
	return seq
}

// Graph rebuilds the dag.Graph described by the document and checks that it
// is acyclic.
func (d *Document) Graph() (*dag.Graph, error) {
	g := dag.New()
	for _, rec := range d.Nodes {
		kind, err := dag.ParseKind(rec.Kind)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", rec.ID, err)
		}
		n := dag.Node{ID: dag.NodeID(rec.ID), Kind: kind, Label: rec.Label, Index: rec.Index}
		switch kind {
		case dag.KindLeaf:
			n.Operand = tac.NewOperand(rec.Label)
		case dag.KindOperator:
			if rec.Left == nil || rec.Right == nil {
				return nil, fmt.Errorf("operator node %d is missing its operands", rec.ID)
			}
			n.Op = tac.Operator(rec.Label)
			n.Left, n.Right = dag.NodeID(*rec.Left), dag.NodeID(*rec.Right)
		}
		if _, err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range d.Edges {
		if err := g.AddEdge(dag.NodeID(e.Source), dag.NodeID(e.Target)); err != nil {
			return nil, fmt.Errorf("edge %d -> %d: %w", e.Source, e.Target, err)
		}
	}
	for name, id := range d.Bindings {
		if err := g.Bind(name, dag.NodeID(id)); err != nil {
			return nil, err
		}
	}
	if err := g.DetectCycles(); err != nil {
		return nil, fmt.Errorf("invalid document graph: %w", err)
	}
	return g, nil
}

// Program rebuilds the parsed program.
func (d *Document) Program() *tac.Program {
	prog := &tac.Program{}
	for _, rec := range d.Instructions {
		in := tac.Instruction{
			Index:    rec.Index,
			Line:     rec.Line,
			Target:   rec.Target,
			Operator: tac.Operator(rec.Operator),
		}
		for _, text := range rec.Operands {
			in.Operands = append(in.Operands, tac.NewOperand(text))
		}
		prog.Instructions = append(prog.Instructions, in)
	}
	return prog
}

// ParserDiagnostics rebuilds the diagnostics list.
func (d *Document) ParserDiagnostics() tac.Diagnostics {
	var out tac.Diagnostics
	for _, rec := range d.Diagnostics {
		out = append(out, tac.Diagnostic{
			Line:   rec.Line,
			Raw:    rec.Raw,
			Reason: tac.Reason(rec.Reason),
			Detail: rec.Detail,
			Offset: rec.Offset,
		})
	}
	return out
}

// NodeIDs converts the sequence back to node ids.
func (s Sequence) NodeIDs() []dag.NodeID {
	out := make([]dag.NodeID, len(s.IDs))
	for i, id := range s.IDs {
		out[i] = dag.NodeID(id)
	}
	return out
}
