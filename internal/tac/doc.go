// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package tac reads three-address code into typed instructions.
//
// Why a separate package for the instruction model?
//
// Everything downstream (the DAG builder, the scheduler, the exporters) works
// on Instruction values and never on raw text. Keeping the text handling here
// means operand classification happens exactly once: a token becomes a
// Variable or a Literal when the line is read, and later stages switch on that
// tag instead of re-inspecting characters.
//
// Input is line oriented. Each accepted line has one of two shapes:
//
//	target = operand
//	target = operand1 OPERATOR operand2
//
// Lines without an `=` are skipped. Lines with an `=` that do not fit either
// shape are reported as Diagnostics and skipped; a bad line never stops the
// rest of the input from being read.
package tac
