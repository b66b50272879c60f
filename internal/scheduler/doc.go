// Package scheduler derives instruction orderings from a finished dag.Graph.
//
// # Orderings
//
//   - **Topological:** every node, dependencies first. Ties go to the lower
//     node id, i.e. the node created earlier in source order.
//   - **Optimal:** the topological order restricted to result nodes. This is the
//     listing of assignments a straight-line code generator would emit.
//   - **Heuristic:** a list schedule over every node. Among the nodes whose
//     inputs are already placed, the one with the fewest successors goes first,
//     so values with few consumers are used up early and their live ranges stay
//     short. Equal successor counts keep topological order.
//
// All three are pure functions of the graph. They return a *dag.CycleError
// instead of looping when some nodes can never become ready.
package scheduler
