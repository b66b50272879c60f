package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

var dotShapes = map[string]string{
	"leaf":     "plaintext",
	"operator": "circle",
	"result":   "box",
}

// WriteDOT writes the graph in Graphviz DOT syntax. Node ids are used as DOT
// identifiers and names as labels, so shared operators stay distinct.
func WriteDOT(w io.Writer, d *Document) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph dag {")
	fmt.Fprintln(bw, "  rankdir=BT;")
	fmt.Fprintln(bw, `  node [style=filled, fillcolor="#6BAED6", fontname="Helvetica-Bold"];`)
	fmt.Fprintln(bw, `  edge [color="#636363"];`)
	for _, n := range d.Nodes {
		shape, ok := dotShapes[n.Kind]
		if !ok {
			shape = "ellipse"
		}
		fmt.Fprintf(bw, "  n%d [label=%s, shape=%s];\n", n.ID, strconv.Quote(n.Label), shape)
	}
	for _, e := range d.Edges {
		fmt.Fprintf(bw, "  n%d -> n%d;\n", e.Source, e.Target)
	}
	fmt.Fprintln(bw, "}")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write DOT: %w", err)
	}
	return nil
}
