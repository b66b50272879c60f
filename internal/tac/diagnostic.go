// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Diagnostic, the record produced for a line that contains
// an `=` but cannot be turned into an Instruction.
//
// Why return diagnostics instead of an error?
//
// A malformed line only loses that line. The caller still gets every valid
// instruction, builds a graph from them, and shows the diagnostics as warnings
// next to the result. Converting to hcl.Diagnostics lets the CLI reuse the HCL
// text writer, which prints the offending source line under each message.
package tac

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Reason says why a line was rejected.
type Reason string

const (
	// ReasonTokenCount: the right side of `=` is neither 1 nor 3 tokens.
	ReasonTokenCount Reason = "expected 1 or 3 tokens after '='"
	// ReasonInvalidTarget: the left side of `=` is not an identifier.
	ReasonInvalidTarget Reason = "assignment target is not an identifier"
	// ReasonInvalidOperand: an operand contains `=`, as in `a = b == c`.
	ReasonInvalidOperand Reason = "operand contains '='"
	// ReasonUnknownOperator: the middle token is an identifier, a literal or
	// `=`, or is missing from the configured operator set.
	ReasonUnknownOperator Reason = "unknown operator"
)

// Diagnostic reports one rejected line. It is the InvalidLine outcome.
type Diagnostic struct {
	// Line is the 1-based line number.
	Line int
	// Raw is the line text with the trailing carriage return removed.
	Raw string
	// Reason says why the line was rejected.
	Reason Reason
	// Detail optionally names the offending token.
	Detail string
	// Offset is the byte offset of the line start in the input text.
	Offset int
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	if d.Detail != "" {
		return fmt.Sprintf("line %d: invalid line %q: %s (%s)", d.Line, d.Raw, d.Reason, d.Detail)
	}
	return fmt.Sprintf("line %d: invalid line %q: %s", d.Line, d.Raw, d.Reason)
}

// Diagnostics is the list of rejected lines, in source order.
type Diagnostics []Diagnostic

// HasAny reports whether any line was rejected.
func (ds Diagnostics) HasAny() bool {
	return len(ds) > 0
}

// Error joins all diagnostics into one message.
func (ds Diagnostics) Error() string {
	switch len(ds) {
	case 0:
		return "no diagnostics"
	case 1:
		return ds[0].Error()
	}
	msgs := make([]string, len(ds))
	for i, d := range ds {
		msgs[i] = d.Error()
	}
	return fmt.Sprintf("%d invalid lines: %s", len(ds), strings.Join(msgs, "; "))
}

// Lines returns the line numbers of all diagnostics.
func (ds Diagnostics) Lines() []int {
	out := make([]int, len(ds))
	for i, d := range ds {
		out[i] = d.Line
	}
	return out
}

// HCL converts the diagnostics to warning-severity hcl.Diagnostics whose
// subject covers the rejected line in filename.
func (ds Diagnostics) HCL(filename string) hcl.Diagnostics {
	out := make(hcl.Diagnostics, 0, len(ds))
	for _, d := range ds {
		rng := hcl.Range{
			Filename: filename,
			Start:    hcl.Pos{Line: d.Line, Column: 1, Byte: d.Offset},
			End:      hcl.Pos{Line: d.Line, Column: len(d.Raw) + 1, Byte: d.Offset + len(d.Raw)},
		}
		detail := fmt.Sprintf("Line %d was skipped: %s.", d.Line, d.Reason)
		if d.Detail != "" {
			detail = fmt.Sprintf("Line %d was skipped: %s (%s).", d.Line, d.Reason, d.Detail)
		}
		out = append(out, &hcl.Diagnostic{
			Severity: hcl.DiagWarning,
			Summary:  "Invalid TAC line",
			Detail:   detail,
			Subject:  &rng,
		})
	}
	return out
}
