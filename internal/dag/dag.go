package dag

import (
	"fmt"
	"sort"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		edgeSet:  make(map[Edge]struct{}),
		bindings: make(map[string]NodeID),
	}
}

// AddNode appends n to the graph. n.ID must be the next dense id, i.e. the
// current Len. The id is returned for convenience.
func (g *Graph) AddNode(n Node) (NodeID, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if want := NodeID(len(g.nodes)); n.ID != want {
		return 0, fmt.Errorf("node id %d out of sequence, expected %d", n.ID, want)
	}
	if _, ok := kindNames[n.Kind]; !ok {
		return 0, fmt.Errorf("node %d has invalid kind %d", n.ID, int(n.Kind))
	}

	g.nodes = append(g.nodes, n)
	g.succ = append(g.succ, nil)
	g.pred = append(g.pred, nil)
	return n.ID, nil
}

// AddEdge creates a directed edge from the `from` node to the `to` node,
// meaning `to` consumes `from`. An error is returned if either node does not
// exist or if the edge would be a self-reference. Adding an edge twice is a
// no-op.
func (g *Graph) AddEdge(from, to NodeID) error {
	if from == to {
		return fmt.Errorf("self-referential edge not allowed: %d -> %d", from, from)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if !g.has(from) {
		return fmt.Errorf("source node not found: %d", from)
	}
	if !g.has(to) {
		return fmt.Errorf("destination node not found: %d", to)
	}

	e := Edge{From: from, To: to}
	if _, dup := g.edgeSet[e]; dup {
		return nil
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
	g.succ[from] = insertSorted(g.succ[from], to)
	g.pred[to] = insertSorted(g.pred[to], from)
	return nil
}

// Bind points name at node id, replacing any previous binding.
func (g *Graph) Bind(name string, id NodeID) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if !g.has(id) {
		return fmt.Errorf("cannot bind %q: node not found: %d", name, id)
	}
	g.bindings[name] = id
	return nil
}

// Binding returns the node currently bound to name.
func (g *Graph) Binding(name string) (NodeID, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	id, ok := g.bindings[name]
	return id, ok
}

// Bindings returns a copy of all variable bindings.
func (g *Graph) Bindings() map[string]NodeID {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	out := make(map[string]NodeID, len(g.bindings))
	for k, v := range g.bindings {
		out[k] = v
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	if !g.has(id) {
		return Node{}, false
	}
	return g.nodes[id], true
}

// Nodes returns all nodes ordered by id.
func (g *Graph) Nodes() []Node {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return append([]Node(nil), g.nodes...)
}

// Edges returns all edges in the order they were added.
func (g *Graph) Edges() []Edge {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return append([]Edge(nil), g.edges...)
}

// Predecessors returns the ids of the nodes id consumes, ascending.
func (g *Graph) Predecessors(id NodeID) []NodeID {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	if !g.has(id) {
		return nil
	}
	return append([]NodeID(nil), g.pred[id]...)
}

// Successors returns the ids of the nodes consuming id, ascending.
func (g *Graph) Successors(id NodeID) []NodeID {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	if !g.has(id) {
		return nil
	}
	return append([]NodeID(nil), g.succ[id]...)
}

// OutDegree returns the number of distinct successors of id.
func (g *Graph) OutDegree(id NodeID) int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	if !g.has(id) {
		return 0
	}
	return len(g.succ[id])
}

// InDegree returns the number of distinct predecessors of id.
func (g *Graph) InDegree(id NodeID) int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	if !g.has(id) {
		return 0
	}
	return len(g.pred[id])
}

// Results returns the ids of all result nodes, ascending.
func (g *Graph) Results() []NodeID {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var out []NodeID
	for _, n := range g.nodes {
		if n.Kind == KindResult {
			out = append(out, n.ID)
		}
	}
	return out
}

// DetectCycles checks the graph for any cycles. It returns a *CycleError
// holding the nodes of the first cycle found, walking ids in ascending order.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Classic depth-first search with three sets of nodes:
	// permanent: fully visited and not part of a cycle.
	// temporary: on the current recursion stack.
	// unvisited: everything else.
	permanent := make([]bool, len(g.nodes))
	temporary := make([]bool, len(g.nodes))
	var stack []NodeID

	var visit func(id NodeID) error
	visit = func(id NodeID) error {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			// Everything on the stack from id onwards forms the cycle.
			for i, s := range stack {
				if s == id {
					return &CycleError{Nodes: append([]NodeID(nil), stack[i:]...)}
				}
			}
			return &CycleError{Nodes: []NodeID{id}}
		}

		temporary[id] = true
		stack = append(stack, id)
		for _, next := range g.succ[id] {
			if err := visit(next); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		temporary[id] = false
		permanent[id] = true
		return nil
	}

	for id := range g.nodes {
		if err := visit(NodeID(id)); err != nil {
			return err
		}
	}
	return nil
}

// has must be called with the mutex held.
func (g *Graph) has(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

func insertSorted(ids []NodeID, id NodeID) []NodeID {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}
