package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// NothingToSchedule is printed for an input without instructions.
const NothingToSchedule = "nothing to schedule"

const sequenceSeparator = " → "

// WriteText writes a short human-readable report: the two sequences, or
// NothingToSchedule for an empty document.
func WriteText(w io.Writer, d *Document) error {
	var sb strings.Builder
	if d.Empty {
		sb.WriteString(NothingToSchedule)
		sb.WriteByte('\n')
	} else {
		fmt.Fprintf(&sb, "Instructions: %d  Nodes: %d  Edges: %d\n", len(d.Instructions), len(d.Nodes), len(d.Edges))
		fmt.Fprintf(&sb, "Heuristic Sequence: %s\n", strings.Join(d.Heuristic.Labels, sequenceSeparator))
		fmt.Fprintf(&sb, "Optimal Sequence: %s\n", strings.Join(d.Optimal.Labels, sequenceSeparator))
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteDiagnostics renders the document's diagnostics as HCL warnings with
// the offending source line quoted. filename only labels the output.
func WriteDiagnostics(w io.Writer, filename string, d *Document, color bool) error {
	if len(d.Diagnostics) == 0 {
		return nil
	}
	files := map[string]*hcl.File{filename: {Bytes: []byte(d.Source)}}
	wr := hcl.NewDiagnosticTextWriter(w, files, 78, color)
	return wr.WriteDiagnostics(d.ParserDiagnostics().HCL(filename))
}
