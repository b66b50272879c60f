// Package dag holds the expression graph built from a TAC program and the
// builder that produces it.
//
// # Node Kinds
//
// Every node is one of three kinds:
//   - **Leaf:** a free input, either a literal or a variable read before it was assigned.
//   - **Operator:** one binary computation over two already-existing nodes.
//   - **Result:** the value an assignment target receives from an operator.
//
// Edges run operand → operator and operator → result. Node ids are dense and
// follow creation order, which is source order, so two builds of the same
// program produce the same ids.
//
// # Common Subexpressions
//
// The Builder keeps a value-number table keyed by (operator, left, right).
// A binary instruction whose key is already present reuses the operator node
// and only adds a new result node for its target. Operand order is part of
// the key because `-`, `/` and `%` are not commutative.
//
// The graph only grows. Nodes and edges are never removed, and a reassigned
// variable simply binds to its newest node.
package dag
