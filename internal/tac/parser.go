// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file contains the line parser.
package tac

import (
	"strings"
)

// Option configures a Parser.
type Option func(*Parser)

// WithOperators restricts the parser to ops. Without it, or with an empty
// list, any token accepted by IsOperatorToken is an operator.
func WithOperators(ops ...Operator) Option {
	return func(p *Parser) {
		if len(ops) == 0 {
			return
		}
		set := make(map[Operator]struct{}, len(ops))
		for _, op := range ops {
			if op == OpNone {
				continue
			}
			set[op] = struct{}{}
		}
		if len(set) > 0 {
			p.operators = set
		}
	}
}

// Parser turns TAC text into a Program. A Parser holds only configuration and
// is safe for concurrent use.
type Parser struct {
	// operators is nil for the open operator set.
	operators map[Operator]struct{}
}

// NewParser returns a parser with the open operator set unless configured
// otherwise.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads text with a parser built from opts.
func Parse(text string, opts ...Option) (*Program, Diagnostics) {
	return NewParser(opts...).Parse(text)
}

// Operators returns the accepted operators in sorted order, or nil when the
// operator set is open.
func (p *Parser) Operators() []Operator {
	if p.operators == nil {
		return nil
	}
	ops := make([]Operator, 0, len(p.operators))
	for op := range p.operators {
		ops = append(ops, op)
	}
	return sortOperators(ops)
}

// Fingerprint identifies the parser configuration. Two parsers with the same
// fingerprint produce the same Program for the same text.
func (p *Parser) Fingerprint() string {
	if p.operators == nil {
		return "ops:any"
	}
	ops := p.Operators()
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = string(op)
	}
	return "ops=" + strings.Join(parts, " ")
}

// Parse reads text line by line. It always returns a non-nil Program; lines
// that cannot be read are reported in the returned Diagnostics.
func (p *Parser) Parse(text string) (*Program, Diagnostics) {
	prog := &Program{}
	var diags Diagnostics

	offset := 0
	for i, line := range strings.Split(text, "\n") {
		lineStart := offset
		offset += len(line) + 1

		raw := strings.TrimSuffix(line, "\r")
		in, diag, ok := p.parseLine(raw)
		if diag != nil {
			diag.Line = i + 1
			diag.Raw = raw
			diag.Offset = lineStart
			diags = append(diags, *diag)
			continue
		}
		if !ok {
			continue
		}
		in.Index = len(prog.Instructions)
		in.Line = i + 1
		prog.Instructions = append(prog.Instructions, in)
	}
	return prog, diags
}

// parseLine reads one line. ok is false when the line is skipped without a
// diagnostic (blank, comment, or no `=`).
func (p *Parser) parseLine(raw string) (in Instruction, diag *Diagnostic, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
		return Instruction{}, nil, false
	}
	lhs, rhs, found := strings.Cut(trimmed, "=")
	if !found {
		return Instruction{}, nil, false
	}

	tokens := strings.Fields(rhs)
	if len(tokens) != 1 && len(tokens) != 3 {
		return Instruction{}, &Diagnostic{Reason: ReasonTokenCount}, false
	}

	target := strings.TrimSpace(lhs)
	if !IsIdentifier(target) {
		return Instruction{}, &Diagnostic{Reason: ReasonInvalidTarget, Detail: target}, false
	}

	for i, tok := range tokens {
		if i == 1 {
			continue
		}
		if strings.Contains(tok, "=") {
			return Instruction{}, &Diagnostic{Reason: ReasonInvalidOperand, Detail: tok}, false
		}
	}

	if len(tokens) == 1 {
		return Instruction{
			Target:   target,
			Operator: OpNone,
			Operands: []Operand{NewOperand(tokens[0])},
		}, nil, true
	}

	left, opTok, right := tokens[0], tokens[1], tokens[2]
	op := Operator(opTok)
	if !p.accepts(op) {
		return Instruction{}, &Diagnostic{Reason: ReasonUnknownOperator, Detail: opTok}, false
	}
	return Instruction{
		Target:   target,
		Operator: op,
		Operands: []Operand{NewOperand(left), NewOperand(right)},
	}, nil, true
}

func (p *Parser) accepts(op Operator) bool {
	if p.operators == nil {
		return IsOperatorToken(string(op))
	}
	_, ok := p.operators[op]
	return ok
}
