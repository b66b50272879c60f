// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the operand model. An operand is either a reference to a
// variable or a numeric literal, and that distinction is fixed at parse time.
package tac

import (
	"regexp"
	"strings"
)

// OperandKind tags an Operand as a variable reference or a literal.
type OperandKind int

const (
	// Variable is a reference to a named value, bound or free.
	Variable OperandKind = iota
	// Literal is a numeric constant written in the source.
	Literal
)

// String returns the lower-case name of the kind.
func (k OperandKind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Literal:
		return "literal"
	default:
		return "unknown"
	}
}

var (
	identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	literalRegex    = regexp.MustCompile(`^[0-9]+$`)
)

// Operand is a classified instruction operand.
type Operand struct {
	Kind OperandKind
	Text string
}

// NewOperand classifies a token. A token made only of digits is a Literal,
// anything else is a Variable.
func NewOperand(token string) Operand {
	if literalRegex.MatchString(token) {
		return Operand{Kind: Literal, Text: token}
	}
	return Operand{Kind: Variable, Text: token}
}

// IsLiteral reports whether the operand is a numeric literal.
func (o Operand) IsLiteral() bool {
	return o.Kind == Literal
}

// String returns the operand as it appeared in the source.
func (o Operand) String() string {
	return o.Text
}

// IsIdentifier reports whether s can name a variable.
func IsIdentifier(s string) bool {
	return identifierRegex.MatchString(s)
}

// IsOperatorToken reports whether s can stand between two operands: it is
// not empty, not `=`, has no whitespace, and is neither an identifier nor a
// literal.
func IsOperatorToken(s string) bool {
	if s == "" || s == "=" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	return !identifierRegex.MatchString(s) && !literalRegex.MatchString(s)
}
