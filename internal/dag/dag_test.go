package dag

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestGraph returns a graph with n leaf nodes labelled by id.
func newTestGraph(t *testing.T, n int) *Graph {
	t.Helper()
	g := New()
	for i := 0; i < n; i++ {
		_, err := g.AddNode(Node{ID: NodeID(i), Kind: KindLeaf, Label: string(rune('a' + i))})
		require.NoError(t, err)
	}
	return g
}

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.Zero(t, g.Len())
	assert.Empty(t, g.Nodes())
	assert.Empty(t, g.Edges())
	assert.Empty(t, g.Bindings())
}

func TestAddNode(t *testing.T) {
	g := New()

	id, err := g.AddNode(Node{ID: 0, Kind: KindLeaf, Label: "a"})
	require.NoError(t, err)
	assert.Equal(t, NodeID(0), id)

	_, err = g.AddNode(Node{ID: 0, Kind: KindLeaf, Label: "again"})
	assert.ErrorContains(t, err, "out of sequence")

	_, err = g.AddNode(Node{ID: 1, Kind: Kind(42)})
	assert.ErrorContains(t, err, "invalid kind")

	id, err = g.AddNode(Node{ID: 1, Kind: KindResult, Label: "b"})
	require.NoError(t, err)
	assert.Equal(t, NodeID(1), id)
	assert.Equal(t, 2, g.Len())

	n, ok := g.Node(1)
	require.True(t, ok)
	assert.Equal(t, "b", n.Label)
	_, ok = g.Node(2)
	assert.False(t, ok)
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := newTestGraph(t, 3)

		require.NoError(t, g.AddEdge(0, 2))
		require.NoError(t, g.AddEdge(1, 2))
		require.NoError(t, g.AddEdge(0, 1))

		assert.Equal(t, []NodeID{1, 2}, g.Successors(0))
		assert.Equal(t, []NodeID{0, 1}, g.Predecessors(2))
		assert.Equal(t, 2, g.OutDegree(0))
		assert.Equal(t, 2, g.InDegree(2))
		assert.Equal(t, []Edge{{0, 2}, {1, 2}, {0, 1}}, g.Edges(), "edges keep insertion order")
	})

	t.Run("duplicate edge is collapsed", func(t *testing.T) {
		g := newTestGraph(t, 2)

		require.NoError(t, g.AddEdge(0, 1))
		require.NoError(t, g.AddEdge(0, 1))

		assert.Len(t, g.Edges(), 1)
		assert.Equal(t, 1, g.OutDegree(0))
	})

	t.Run("error cases", func(t *testing.T) {
		g := newTestGraph(t, 2)

		err := g.AddEdge(9, 0)
		assert.ErrorContains(t, err, "source node not found")

		err = g.AddEdge(0, 9)
		assert.ErrorContains(t, err, "destination node not found")

		err = g.AddEdge(0, 0)
		assert.ErrorContains(t, err, "self-referential edge")
	})
}

func TestBind(t *testing.T) {
	g := newTestGraph(t, 2)

	require.NoError(t, g.Bind("x", 0))
	require.NoError(t, g.Bind("x", 1))
	assert.ErrorContains(t, g.Bind("y", 7), "node not found")

	id, ok := g.Binding("x")
	require.True(t, ok)
	assert.Equal(t, NodeID(1), id, "latest binding wins")

	bindings := g.Bindings()
	bindings["x"] = 0
	id, _ = g.Binding("x")
	assert.Equal(t, NodeID(1), id, "Bindings must return a copy")
}

func TestResults(t *testing.T) {
	g := New()
	kinds := []Kind{KindLeaf, KindOperator, KindResult, KindLeaf, KindResult}
	for i, k := range kinds {
		_, err := g.AddNode(Node{ID: NodeID(i), Kind: k})
		require.NoError(t, err)
	}
	assert.Equal(t, []NodeID{2, 4}, g.Results())
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		assert.NoError(t, New().DetectCycles())
	})

	t.Run("graph with nodes but no edges has no cycles", func(t *testing.T) {
		assert.NoError(t, newTestGraph(t, 3).DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := newTestGraph(t, 4)
		require.NoError(t, g.AddEdge(0, 1))
		require.NoError(t, g.AddEdge(1, 2))
		require.NoError(t, g.AddEdge(0, 2)) // Transitive edge
		require.NoError(t, g.AddEdge(2, 3))
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("simple direct cycle is detected", func(t *testing.T) {
		g := newTestGraph(t, 2)
		require.NoError(t, g.AddEdge(0, 1))
		require.NoError(t, g.AddEdge(1, 0))

		err := g.DetectCycles()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCycleDetected))

		var cycleErr *CycleError
		require.True(t, errors.As(err, &cycleErr))
		assert.Equal(t, []NodeID{0, 1}, cycleErr.Nodes)
	})

	t.Run("cycle in a disjoint component is detected", func(t *testing.T) {
		g := newTestGraph(t, 5)
		// Component 1 (valid)
		require.NoError(t, g.AddEdge(0, 1))
		// Component 2 (has a cycle)
		require.NoError(t, g.AddEdge(2, 3))
		require.NoError(t, g.AddEdge(3, 4))
		require.NoError(t, g.AddEdge(4, 3))

		err := g.DetectCycles()
		var cycleErr *CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, []NodeID{3, 4}, cycleErr.Nodes)
		assert.EqualError(t, err, "cycle detected involving nodes [3 4]")
	})
}

func TestKind(t *testing.T) {
	for _, k := range []Kind{KindLeaf, KindOperator, KindResult} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("register")
	assert.Error(t, err)
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestGraph_ConcurrentReaders(t *testing.T) {
	g := newTestGraph(t, 3)
	require.NoError(t, g.AddEdge(0, 1))
	require.NoError(t, g.AddEdge(1, 2))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, g.DetectCycles())
			assert.Equal(t, []NodeID{2}, g.Successors(1))
			assert.Len(t, g.Nodes(), 3)
		}()
	}
	wg.Wait()
}
