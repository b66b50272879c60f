package export

import (
	"fmt"
	"io"
)

// Output formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatText, FormatJSON, FormatDOT}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Write writes d in the named format.
func Write(w io.Writer, format string, d *Document) error {
	switch format {
	case FormatText:
		return WriteText(w, d)
	case FormatJSON:
		return WriteJSON(w, d)
	case FormatDOT:
		return WriteDOT(w, d)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
