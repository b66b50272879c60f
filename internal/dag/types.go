package dag

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/SuramyaVimal/dag-cd/internal/tac"
)

// NodeID identifies a node. Ids are dense, starting at zero, in creation order.
type NodeID int

// Kind is the role a node plays in the graph.
type Kind int

const (
	KindLeaf Kind = iota
	KindOperator
	KindResult
)

var kindNames = map[Kind]string{
	KindLeaf:     "leaf",
	KindOperator: "operator",
	KindResult:   "result",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// Node is a single vertex. Nodes are values: the graph hands out copies and
// never changes a node after it was added.
type Node struct {
	ID    NodeID
	Kind  Kind
	Label string

	// Operand is set for leaves.
	Operand tac.Operand
	// Op, Left and Right are set for operator nodes.
	Op    tac.Operator
	Left  NodeID
	Right NodeID

	// Index is the instruction that created the node. Leaves take the index
	// of the first instruction that read them.
	Index int
}

// Name is the display name of the node. Operator nodes are suffixed with
// their id since many of them share a symbol.
func (n Node) Name() string {
	if n.Kind == KindOperator {
		return fmt.Sprintf("%s_%d", n.Op, n.ID)
	}
	return n.Label
}

// Edge is a directed dependency: To consumes From.
type Edge struct {
	From NodeID
	To   NodeID
}

// Graph is the node and edge store. All methods are safe for concurrent use;
// a finished graph is typically shared read-only.
type Graph struct {
	mutex sync.RWMutex

	nodes []Node
	// succ and pred hold neighbour ids in ascending order.
	succ [][]NodeID
	pred [][]NodeID

	edges   []Edge
	edgeSet map[Edge]struct{}

	// bindings maps each assigned variable to its latest node.
	bindings map[string]NodeID
}

// ErrCycleDetected is matched by every *CycleError.
var ErrCycleDetected = errors.New("cycle detected")

// CycleError reports nodes that could not be ordered because they sit on or
// behind a cycle.
type CycleError struct {
	Nodes []NodeID
}

func (e *CycleError) Error() string {
	ids := make([]string, len(e.Nodes))
	for i, id := range e.Nodes {
		ids[i] = fmt.Sprint(int(id))
	}
	return fmt.Sprintf("cycle detected involving nodes [%s]", strings.Join(ids, " "))
}

// Is makes errors.Is(err, ErrCycleDetected) hold for any *CycleError.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycleDetected
}
