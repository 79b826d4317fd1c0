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
	"bytes"
	"strings"
	"testing"

	"github.com/krotik/rpal/normalizer"
	"github.com/krotik/rpal/parser"
	"github.com/krotik/rpal/util"
)

func mustRun(t *testing.T, src string) (Value, string) {
	t.Helper()

	ast, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	st, err := normalizer.Normalize(ast)
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}

	var out bytes.Buffer
	m := New(&out, 0, nil)

	val, err := m.Run(st)
	if err != nil {
		t.Fatalf("evaluation error: %v", err)
	}

	return val, out.String()
}

func TestLetInArithmetic(t *testing.T) {
	val, _ := mustRun(t, "let x = 5 in x + 3")
	if val.Kind != KindInt || val.Int != 8 {
		t.Fatalf("expected 8, got %v", val.Display())
	}
}

func TestRecFactorial(t *testing.T) {
	val, _ := mustRun(t, "let rec f n = n eq 0 -> 1 | n * f (n-1) in f 5")
	if val.Kind != KindInt || val.Int != 120 {
		t.Fatalf("expected 120, got %v", val.Display())
	}
}

func TestTupleAndAug(t *testing.T) {
	val, _ := mustRun(t, "(1,2,3) aug 4")
	if val.Kind != KindTuple {
		t.Fatalf("expected tuple, got %v", val.Kind)
	}
	want := "(1, 2, 3, 4)"
	if got := val.Display(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestAugOnNilYieldsSingleton(t *testing.T) {
	val, _ := mustRun(t, "nil aug 1")
	if val.Kind != KindTuple || len(val.Tuple) != 1 || val.Tuple[0].Int != 1 {
		t.Fatalf("expected a 1-tuple containing 1, got %v", val.Display())
	}
}

func TestConcCurried(t *testing.T) {
	_, out := mustRun(t, "Print (Conc 'ab' 'cd')")
	if out != "abcd" {
		t.Fatalf("expected abcd, got %q", out)
	}
}

func TestStemStern(t *testing.T) {
	_, out := mustRun(t, "Print (Conc (Stem 'abc') (Stern 'abc'))")
	if out != "abc" {
		t.Fatalf("expected Stem/Stern to reassemble the string, got %q", out)
	}
}

func TestTupleEvaluationOrderIsRightToLeft(t *testing.T) {
	// Side effects inside a tuple literal fire right-to-left as the
	// control is consumed, then the assembled tuple preserves source
	// order for its elements.
	val, out := mustRun(t, "(Print 1, Print 2)")
	if out != "21" {
		t.Fatalf("expected right-to-left print order '21', got %q", out)
	}
	if val.Kind != KindTuple || val.Tuple[0].Kind != KindDummy || val.Tuple[1].Kind != KindDummy {
		t.Fatalf("expected a 2-tuple of dummies, got %v", val.Display())
	}
}

func TestConditional(t *testing.T) {
	val, _ := mustRun(t, "3 gr 2 -> 1 | 0")
	if val.Kind != KindInt || val.Int != 1 {
		t.Fatalf("expected 1, got %v", val.Display())
	}
}

func TestWithinDefinition(t *testing.T) {
	val, _ := mustRun(t, "let a = 1 within b = a + 1 in b")
	if val.Kind != KindInt || val.Int != 2 {
		t.Fatalf("expected 2, got %v", val.Display())
	}
}

func TestMutualDefinitionsViaAnd(t *testing.T) {
	val, _ := mustRun(t, "let x = 1 and y = 2 in x + y")
	if val.Kind != KindInt || val.Int != 3 {
		t.Fatalf("expected 3, got %v", val.Display())
	}
}

func TestMultiParamLambda(t *testing.T) {
	val, _ := mustRun(t, "let add x y = x + y in add 2 3")
	if val.Kind != KindInt || val.Int != 5 {
		t.Fatalf("expected 5, got %v", val.Display())
	}
}

func TestUnboundIdentifierErrors(t *testing.T) {
	_, err := runErr(t, "y + 1")
	if err == nil {
		t.Fatal("expected an unbound identifier error")
	}
}

func TestDivisionByZeroErrors(t *testing.T) {
	_, err := runErr(t, "1 / 0")
	if err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestMaxCallDepthGuard(t *testing.T) {
	ast, err := parser.Parse("let rec f n = f n in f 0")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	st, err := normalizer.Normalize(ast)
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}

	m := New(&bytes.Buffer{}, 64, nil)
	if _, err := m.Run(st); err == nil {
		t.Fatal("expected a call-depth overflow error")
	}
}

func TestMachineLogsDebugTrace(t *testing.T) {
	ast, err := parser.Parse("let double x = x + x in double (Stem 'ab')")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	st, err := normalizer.Normalize(ast)
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}

	logger := util.NewMemoryLogger(32)
	m := New(&bytes.Buffer{}, 0, logger)

	// x + x on a string is a type error, but the trace from the
	// builtin call and the closure's environment creation is recorded
	// before evaluation fails, which is all this test checks.
	m.Run(st)

	log := logger.String()
	if !strings.Contains(log, "Stem") {
		t.Fatalf("expected the builtin call trace to mention Stem, got %q", log)
	}
	if !strings.Contains(log, "creating environment") {
		t.Fatalf("expected an environment-creation trace entry, got %q", log)
	}
}

func TestFibonacciRangeScenario(t *testing.T) {
	_, out := mustRun(t, `
		let rec step (x, y) =
			x gr 41 -> dummy
			 | (step (y, x + y), Print (Conc ' ' (ItoS x)))
		in step (3, 5)
	`)

	if out != " 3 5 8 13 21 34" {
		t.Fatalf("expected ' 3 5 8 13 21 34', got %q", out)
	}
}

func TestPalindromeRangeScenario(t *testing.T) {
	_, out := mustRun(t, `
		let rec rev (remaining, acc) =
			remaining eq 0 -> acc
			 | rev (remaining / 10, acc * 10 + remaining - (remaining / 10) * 10)
		in
		let reverseNumber n = rev (n, 0)
		in
		let isPalindrome n = n eq reverseNumber n
		in
		let rec displayPalindromes (low, high) =
			low gr high -> dummy
			 | (displayPalindromes (low + 1, high),
			    isPalindrome low -> Print (Conc ' ' (ItoS low)) | dummy)
		in displayPalindromes (5, 125)
	`)

	want := " 5 6 7 8 9 11 22 33 44 55 66 77 88 99 101 111 121"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func runErr(t *testing.T, src string) (Value, error) {
	t.Helper()

	ast, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	st, err := normalizer.Normalize(ast)
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}

	m := New(&bytes.Buffer{}, 0, nil)
	return m.Run(st)
}
