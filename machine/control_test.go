/*
 * ECAL
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package machine

import (
	"testing"

	"github.com/krotik/rpal/normalizer"
	"github.com/krotik/rpal/parser"
)

func mustStandardize(t *testing.T, src string) *parser.ASTNode {
	t.Helper()

	ast, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	st, err := normalizer.Normalize(ast)
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}

	return st
}

func TestBuildControlTableReservesRootAtZero(t *testing.T) {
	st := mustStandardize(t, "let x = 1 in x")

	table := buildControlTable(st)
	if len(table.structures) == 0 {
		t.Fatal("expected at least one control structure")
	}
	if table.structures[0] == nil {
		t.Fatal("structure 0 must hold the flattened root")
	}
}

func TestFlattenLambdaHoistsBodyToOwnStructure(t *testing.T) {
	// let x = 1 in x normalizes to gamma(lambda(x, x), 1); the lambda's
	// body "x" is hoisted into its own structure, leaving only a single
	// itemLambda marker (plus the gamma and the leaf "1") in structure 0.
	st := mustStandardize(t, "let x = 1 in x")

	table := buildControlTable(st)

	var sawLambda bool
	for _, item := range table.structures[0] {
		if item.Kind == itemLambda {
			sawLambda = true
			if item.Struct <= 0 || item.Struct >= len(table.structures) {
				t.Fatalf("lambda body index %d is not a valid structure", item.Struct)
			}
			body := table.structures[item.Struct]
			if len(body) != 1 || body[0].Kind != itemIdentifier || body[0].Name != "x" {
				t.Fatalf("expected hoisted body to be a single identifier 'x', got %+v", body)
			}
		}
	}
	if !sawLambda {
		t.Fatal("expected an itemLambda marker in the flattened root")
	}
}

func TestFlattenConditionalHoistsBothBranches(t *testing.T) {
	st := mustStandardize(t, "3 gr 2 -> 1 | 0")

	table := buildControlTable(st)

	var beta *controlItem
	for i := range table.structures[0] {
		if table.structures[0][i].Kind == itemBeta {
			beta = &table.structures[0][i]
		}
	}
	if beta == nil {
		t.Fatal("expected an itemBeta marker for the conditional")
	}

	thenBranch := table.structures[beta.Struct]
	elseBranch := table.structures[beta.Else]

	if len(thenBranch) != 1 || thenBranch[0].Leaf.Int != 1 {
		t.Fatalf("expected then-branch to be the leaf 1, got %+v", thenBranch)
	}
	if len(elseBranch) != 1 || elseBranch[0].Leaf.Int != 0 {
		t.Fatalf("expected else-branch to be the leaf 0, got %+v", elseBranch)
	}
}

func TestFlattenTauRecordsChildCount(t *testing.T) {
	st := mustStandardize(t, "(1, 2, 3)")

	table := buildControlTable(st)

	if table.structures[0][0].Kind != itemTau || table.structures[0][0].TauCount != 3 {
		t.Fatalf("expected a tau marker with count 3, got %+v", table.structures[0][0])
	}
}

func TestFlattenBinOpPreservesOperandOrder(t *testing.T) {
	st := mustStandardize(t, "1 - 2")

	table := buildControlTable(st)

	items := table.structures[0]
	if items[0].Kind != itemBinOp || items[0].Name != parser.NodeMinus {
		t.Fatalf("expected a '-' marker first, got %+v", items[0])
	}
	// The flattening scheme lists the left operand's items before the
	// right operand's, matching applyBinOp's "first popped is left"
	// convention documented in ops.go.
	if items[1].Kind != itemLeaf || items[1].Leaf.Int != 1 {
		t.Fatalf("expected left operand 1 to come first, got %+v", items[1])
	}
	if items[2].Kind != itemLeaf || items[2].Leaf.Int != 2 {
		t.Fatalf("expected right operand 2 to come second, got %+v", items[2])
	}
}

func TestFlattenUnaryNeg(t *testing.T) {
	st := mustStandardize(t, "-5")

	table := buildControlTable(st)

	items := table.structures[0]
	if items[0].Kind != itemUnOp || items[0].Name != parser.NodeNeg {
		t.Fatalf("expected a unary neg marker, got %+v", items[0])
	}
}

func TestBindPatternSingleIdentifier(t *testing.T) {
	pattern := parser.NewLeaf(parser.NodeIdentifier, parser.LexToken{Lexeme: "x"})

	bindings, err := bindPattern(pattern, IntValue(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bindings["x"].(Value).Int != 42 {
		t.Fatalf("expected x bound to 42, got %v", bindings["x"])
	}
}

func TestBindPatternTuplePointwise(t *testing.T) {
	a := parser.NewLeaf(parser.NodeIdentifier, parser.LexToken{Lexeme: "a"})
	b := parser.NewLeaf(parser.NodeIdentifier, parser.LexToken{Lexeme: "b"})
	pattern := parser.NewNode(parser.NodeComma, a, b)

	arg := TupleValue([]Value{IntValue(1), IntValue(2)})

	bindings, err := bindPattern(pattern, arg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bindings["a"].(Value).Int != 1 || bindings["b"].(Value).Int != 2 {
		t.Fatalf("expected a=1, b=2, got %v", bindings)
	}
}

func TestBindPatternArityMismatchErrors(t *testing.T) {
	a := parser.NewLeaf(parser.NodeIdentifier, parser.LexToken{Lexeme: "a"})
	b := parser.NewLeaf(parser.NodeIdentifier, parser.LexToken{Lexeme: "b"})
	pattern := parser.NewNode(parser.NodeComma, a, b)

	arg := TupleValue([]Value{IntValue(1)})

	if _, err := bindPattern(pattern, arg); err == nil {
		t.Fatal("expected an arity mismatch error")
	}
}
