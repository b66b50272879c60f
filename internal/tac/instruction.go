// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Instruction and Operator, the parsed form of a TAC line.
//
// Why keep both Index and Line?
//
// Index is the position of the instruction among the accepted ones and is the
// tie-break authority for every later stage: node ids follow it, and the
// scheduler falls back to it when two nodes are otherwise unordered. Line is
// only for humans, so diagnostics and exports can point back at the source.
package tac

import (
	"sort"
	"strings"
)

// Operator is the symbolic operator of a binary instruction. The empty
// Operator marks a copy instruction.
type Operator string

const (
	OpNone Operator = ""
	OpAdd  Operator = "+"
	OpSub  Operator = "-"
	OpMul  Operator = "*"
	OpDiv  Operator = "/"
	OpMod  Operator = "%"
)

// String returns the operator symbol.
func (o Operator) String() string {
	return string(o)
}

// Instruction is one accepted TAC statement. It is immutable once parsed.
type Instruction struct {
	// Index is the 0-based position among accepted instructions.
	Index int
	// Line is the 1-based source line the instruction came from.
	Line int
	// Target is the variable being assigned.
	Target string
	// Operator is OpNone for a copy (`a = b`).
	Operator Operator
	// Operands holds one operand for a copy, two for a binary instruction.
	Operands []Operand
}

// IsCopy reports whether the instruction is a plain `target = operand`.
func (i Instruction) IsCopy() bool {
	return i.Operator == OpNone
}

// String renders the instruction back in source form.
func (i Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(i.Target)
	sb.WriteString(" = ")
	if i.IsCopy() {
		if len(i.Operands) > 0 {
			sb.WriteString(i.Operands[0].Text)
		}
		return sb.String()
	}
	sb.WriteString(i.Operands[0].Text)
	sb.WriteRune(' ')
	sb.WriteString(string(i.Operator))
	sb.WriteRune(' ')
	sb.WriteString(i.Operands[1].Text)
	return sb.String()
}

// Program is the ordered list of instructions read from one input text.
type Program struct {
	Instructions []Instruction
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Instructions)
}

// Empty reports whether the program has no usable instructions.
func (p *Program) Empty() bool {
	return p.Len() == 0
}

// Targets returns the distinct assignment targets in first-assignment order.
func (p *Program) Targets() []string {
	if p == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, in := range p.Instructions {
		if !seen[in.Target] {
			seen[in.Target] = true
			out = append(out, in.Target)
		}
	}
	return out
}

// sortOperators returns a sorted copy of ops.
func sortOperators(ops []Operator) []Operator {
	out := append([]Operator(nil), ops...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
