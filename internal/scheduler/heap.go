package scheduler

import (
	"container/heap"

	"github.com/SuramyaVimal/dag-cd/internal/dag"
)

// readyQueue is a min-heap of node ids under a caller-supplied order.
type readyQueue struct {
	ids  []dag.NodeID
	less func(a, b dag.NodeID) bool
}

var _ heap.Interface = (*readyQueue)(nil)

func newReadyQueue(less func(a, b dag.NodeID) bool) *readyQueue {
	return &readyQueue{less: less}
}

func (q *readyQueue) Len() int           { return len(q.ids) }
func (q *readyQueue) Less(i, j int) bool { return q.less(q.ids[i], q.ids[j]) }
func (q *readyQueue) Swap(i, j int)      { q.ids[i], q.ids[j] = q.ids[j], q.ids[i] }

func (q *readyQueue) Push(x any) {
	q.ids = append(q.ids, x.(dag.NodeID))
}

func (q *readyQueue) Pop() any {
	last := len(q.ids) - 1
	id := q.ids[last]
	q.ids = q.ids[:last]
	return id
}

func (q *readyQueue) push(id dag.NodeID) {
	heap.Push(q, id)
}

func (q *readyQueue) pop() dag.NodeID {
	return heap.Pop(q).(dag.NodeID)
}
