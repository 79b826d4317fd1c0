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
	"fmt"
	"strconv"

	"github.com/krotik/rpal/environment"
)

func installBuiltins(root *environment.Environment) {
	for _, b := range builtinTable() {
		root.Bind(b.Name, BuiltinValue(b))
	}
}

func builtinTable() []*Builtin {
	return []*Builtin{
		{Name: "Print", Fn: biPrint},
		{Name: "Stem", Fn: biStem},
		{Name: "Stern", Fn: biStern},
		{Name: "Conc", Fn: biConcStep1},
		{Name: "Order", Fn: biOrder},
		{Name: "Null", Fn: biNull},
		{Name: "Isinteger", Fn: biIsKind(KindInt)},
		{Name: "Isstring", Fn: biIsKind(KindString)},
		{Name: "Istruthvalue", Fn: biIsKind(KindBool)},
		{Name: "Isdummy", Fn: biIsKind(KindDummy)},
		{Name: "Istuple", Fn: biIsKind(KindTuple)},
		{Name: "Isfunction", Fn: biIsFunction},
		{Name: "ItoS", Fn: biItoS},
		{Name: "Neg", Fn: biNeg},
	}
}

func biPrint(m *Machine, arg Value) (Value, error) {
	fmt.Fprint(m.Out, arg.Display())
	return DummyValue(), nil
}

func biStem(m *Machine, arg Value) (Value, error) {
	if arg.Kind != KindString {
		return Value{}, evalError(0, "Stem expects a string, got %v", arg.Kind)
	}
	if len(arg.Str) == 0 {
		return StringValue(""), nil
	}
	return StringValue(arg.Str[:1]), nil
}

func biStern(m *Machine, arg Value) (Value, error) {
	if arg.Kind != KindString {
		return Value{}, evalError(0, "Stern expects a string, got %v", arg.Kind)
	}
	if len(arg.Str) == 0 {
		return StringValue(""), nil
	}
	return StringValue(arg.Str[1:]), nil
}

func biConcStep1(m *Machine, first Value) (Value, error) {
	if first.Kind != KindString {
		return Value{}, evalError(0, "Conc expects a string, got %v", first.Kind)
	}
	return BuiltinValue(&Builtin{
		Name: "Conc",
		Fn: func(m *Machine, second Value) (Value, error) {
			if second.Kind != KindString {
				return Value{}, evalError(0, "Conc expects a string, got %v", second.Kind)
			}
			return StringValue(first.Str + second.Str), nil
		},
	}), nil
}

func biOrder(m *Machine, arg Value) (Value, error) {
	if arg.Kind != KindTuple {
		return Value{}, evalError(0, "Order expects a tuple, got %v", arg.Kind)
	}
	return IntValue(len(arg.Tuple)), nil
}

func biNull(m *Machine, arg Value) (Value, error) {
	switch arg.Kind {
	case KindNil:
		return BoolValue(true), nil
	case KindString:
		return BoolValue(arg.Str == ""), nil
	case KindTuple:
		return BoolValue(len(arg.Tuple) == 0), nil
	}
	return BoolValue(false), nil
}

func biIsKind(k Kind) func(m *Machine, arg Value) (Value, error) {
	return func(m *Machine, arg Value) (Value, error) {
		return BoolValue(arg.Kind == k), nil
	}
}

func biIsFunction(m *Machine, arg Value) (Value, error) {
	return BoolValue(arg.Kind == KindClosure || arg.Kind == KindEta || arg.Kind == KindBuiltin), nil
}

func biItoS(m *Machine, arg Value) (Value, error) {
	if arg.Kind != KindInt {
		return Value{}, evalError(0, "ItoS expects an integer, got %v", arg.Kind)
	}
	return StringValue(strconv.Itoa(arg.Int)), nil
}

func biNeg(m *Machine, arg Value) (Value, error) {
	if arg.Kind != KindInt {
		return Value{}, evalError(0, "Neg expects an integer, got %v", arg.Kind)
	}
	return IntValue(-arg.Int), nil
}
