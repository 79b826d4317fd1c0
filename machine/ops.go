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

import "github.com/krotik/rpal/parser"

func (m *Machine) applyUnOp(item controlItem) error {
	arg, ok := m.popValue()
	if !ok {
		return evalError(item.Line, "%s applied with no operand on the stack", item.Name)
	}

	switch item.Name {

	case parser.NodeNot:
		if arg.Kind != KindBool {
			return evalError(item.Line, "'not' expects a truth value, got %v", arg.Kind)
		}
		m.S.Push(BoolValue(!arg.Bool))
		return nil

	case parser.NodeNeg:
		if arg.Kind != KindInt {
			return evalError(item.Line, "unary '-' expects an integer, got %v", arg.Kind)
		}
		m.S.Push(IntValue(-arg.Int))
		return nil
	}

	return evalError(item.Line, "unrecognized unary operator %q", item.Name)
}

/*
applyBinOp pops two operands off S. The flattening scheme lists the
left operand's items before the right operand's, so the left operand is
evaluated last and its value lies on top of S: the first value popped
here is the left operand and the second is the right operand.
*/
func (m *Machine) applyBinOp(item controlItem) error {
	left, ok1 := m.popValue()
	right, ok2 := m.popValue()
	if !ok1 || !ok2 {
		return evalError(item.Line, "%s applied with a missing operand", item.Name)
	}

	switch item.Name {

	case parser.NodePlus, parser.NodeMinus, parser.NodeMul, parser.NodeDiv, parser.NodePow:
		if left.Kind != KindInt || right.Kind != KindInt {
			return evalError(item.Line, "%s expects two integers", item.Name)
		}
		return m.arith(item, left.Int, right.Int)

	case parser.NodeGr, parser.NodeGe, parser.NodeLs, parser.NodeLe:
		if left.Kind != KindInt || right.Kind != KindInt {
			return evalError(item.Line, "%s expects two integers", item.Name)
		}
		return m.compare(item, left.Int, right.Int)

	case parser.NodeEq, parser.NodeNe:
		eq := valuesEqual(left, right)
		if item.Name == parser.NodeNe {
			eq = !eq
		}
		m.S.Push(BoolValue(eq))
		return nil

	case parser.NodeOr, parser.NodeAnd2:
		if left.Kind != KindBool || right.Kind != KindBool {
			return evalError(item.Line, "%s expects two truth values", item.Name)
		}
		if item.Name == parser.NodeOr {
			m.S.Push(BoolValue(left.Bool || right.Bool))
		} else {
			m.S.Push(BoolValue(left.Bool && right.Bool))
		}
		return nil

	case parser.NodeAug:
		return m.augment(item, left, right)
	}

	return evalError(item.Line, "unrecognized binary operator %q", item.Name)
}

func (m *Machine) arith(item controlItem, a, b int) error {
	switch item.Name {
	case parser.NodePlus:
		m.S.Push(IntValue(a + b))
	case parser.NodeMinus:
		m.S.Push(IntValue(a - b))
	case parser.NodeMul:
		m.S.Push(IntValue(a * b))
	case parser.NodeDiv:
		if b == 0 {
			return evalError(item.Line, "division by zero")
		}
		m.S.Push(IntValue(a / b))
	case parser.NodePow:
		m.S.Push(IntValue(intPow(a, b)))
	}
	return nil
}

func (m *Machine) compare(item controlItem, a, b int) error {
	switch item.Name {
	case parser.NodeGr:
		m.S.Push(BoolValue(a > b))
	case parser.NodeGe:
		m.S.Push(BoolValue(a >= b))
	case parser.NodeLs:
		m.S.Push(BoolValue(a < b))
	case parser.NodeLe:
		m.S.Push(BoolValue(a <= b))
	}
	return nil
}

/*
augment implements aug's asymmetric rule: the left side must already be
a tuple (or nil, standing for the empty tuple), and the right side is
appended as a single new element, never spliced in as a sub-tuple.
*/
func (m *Machine) augment(item controlItem, left, right Value) error {
	var base []Value

	switch left.Kind {
	case KindTuple:
		base = left.Tuple
	case KindNil:
		base = nil
	default:
		return evalError(item.Line, "aug expects a tuple (or nil) on its left, got %v", left.Kind)
	}

	extended := make([]Value, len(base)+1)
	copy(extended, base)
	extended[len(base)] = right

	m.S.Push(TupleValue(extended))
	return nil
}

func valuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindInt:
		return a.Int == b.Int
	case KindString:
		return a.Str == b.Str
	case KindBool:
		return a.Bool == b.Bool
	case KindNil, KindDummy:
		return true
	case KindTuple:
		if len(a.Tuple) != len(b.Tuple) {
			return false
		}
		for i := range a.Tuple {
			if !valuesEqual(a.Tuple[i], b.Tuple[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func intPow(base, exp int) int {
	if exp < 0 {
		return 0
	}
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
