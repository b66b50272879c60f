package scheduler

import (
	"github.com/SuramyaVimal/dag-cd/internal/dag"
)

// Topological returns every node of g with each node after all of its
// predecessors. Among nodes that are ready at the same time the lowest id
// goes first, which makes the result unique for a given graph.
func Topological(g *dag.Graph) ([]dag.NodeID, error) {
	return listSchedule(g, func(a, b dag.NodeID) bool { return a < b })
}

// Optimal returns the result nodes of g in topological order.
func Optimal(g *dag.Graph) ([]dag.NodeID, error) {
	order, err := Topological(g)
	if err != nil {
		return nil, err
	}
	out := make([]dag.NodeID, 0, len(order))
	for _, id := range order {
		if n, _ := g.Node(id); n.Kind == dag.KindResult {
			out = append(out, id)
		}
	}
	return out, nil
}

// Heuristic returns every node of g ordered by ascending successor count,
// subject to dependencies: a node is only eligible once its predecessors are
// placed. Ties keep the order of Topological.
func Heuristic(g *dag.Graph) ([]dag.NodeID, error) {
	base, err := Topological(g)
	if err != nil {
		return nil, err
	}
	pos := make([]int, len(base))
	for i, id := range base {
		pos[id] = i
	}
	return listSchedule(g, func(a, b dag.NodeID) bool {
		da, db := g.OutDegree(a), g.OutDegree(b)
		if da != db {
			return da < db
		}
		return pos[a] < pos[b]
	})
}

// Labels maps ids to node display names.
func Labels(g *dag.Graph, ids []dag.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if n, ok := g.Node(id); ok {
			out[i] = n.Name()
		}
	}
	return out
}

// listSchedule is Kahn's algorithm with the ready set kept in a heap ordered
// by less.
func listSchedule(g *dag.Graph, less func(a, b dag.NodeID) bool) ([]dag.NodeID, error) {
	n := g.Len()
	indegree := make([]int, n)
	ready := newReadyQueue(less)
	for i := 0; i < n; i++ {
		id := dag.NodeID(i)
		indegree[i] = g.InDegree(id)
		if indegree[i] == 0 {
			ready.push(id)
		}
	}

	order := make([]dag.NodeID, 0, n)
	for ready.Len() > 0 {
		id := ready.pop()
		order = append(order, id)
		for _, next := range g.Successors(id) {
			indegree[next]--
			if indegree[next] == 0 {
				ready.push(next)
			}
		}
	}

	if len(order) < n {
		var stuck []dag.NodeID
		for i, d := range indegree {
			if d > 0 {
				stuck = append(stuck, dag.NodeID(i))
			}
		}
		return nil, &dag.CycleError{Nodes: stuck}
	}
	return order, nil
}
