/*
 * ECAL
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package machine implements the CSE (Control-Stack-Environment) abstract
machine: control-structure flattening, the runtime Value union, the
thirteen evaluation rules and the fixed library of built-in functions.
*/
package machine

import (
	"bytes"
	"fmt"

	"github.com/krotik/rpal/environment"
	"github.com/krotik/rpal/parser"
)

/*
Kind identifies the case of a runtime Value.
*/
type Kind int

/*
The closed set of runtime value kinds.
*/
const (
	KindInt Kind = iota
	KindString
	KindBool
	KindNil
	KindDummy
	KindTuple
	KindClosure
	KindEta
	KindYStar
	KindBuiltin
)

/*
String returns a human readable name for a Kind, used in diagnostics.
*/
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindString:
		return "string"
	case KindBool:
		return "truthvalue"
	case KindNil:
		return "nil"
	case KindDummy:
		return "dummy"
	case KindTuple:
		return "tuple"
	case KindClosure:
		return "function"
	case KindEta:
		return "function"
	case KindYStar:
		return "Y*"
	case KindBuiltin:
		return "function"
	}
	return "unknown"
}

/*
Closure captures a λ-body (by its control-structure index), the pattern
of names it binds its argument to, and the environment in effect where
the λ was encountered.
*/
type Closure struct {
	StructIndex int
	BoundVars   *parser.ASTNode
	Env         *environment.Environment
}

/*
Builtin is a primitive function. Fn may itself return another Builtin
value to implement currying (as Conc does).
*/
type Builtin struct {
	Name string
	Fn   func(m *Machine, arg Value) (Value, error)
}

/*
Value is the tagged union of everything the CSE machine can produce or
consume. Exactly the fields relevant to Kind are meaningful at a time.
*/
type Value struct {
	Kind    Kind
	Int     int
	Str     string
	Bool    bool
	Tuple   []Value
	Closure *Closure
	Builtin *Builtin
}

/*
Convenience constructors, mirroring the closed set of leaf literals the
parser and normalizer can produce.
*/

func IntValue(n int) Value      { return Value{Kind: KindInt, Int: n} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func BoolValue(b bool) Value    { return Value{Kind: KindBool, Bool: b} }
func NilValue() Value           { return Value{Kind: KindNil} }
func DummyValue() Value         { return Value{Kind: KindDummy} }
func TupleValue(items []Value) Value {
	return Value{Kind: KindTuple, Tuple: items}
}
func ClosureValue(c *Closure) Value { return Value{Kind: KindClosure, Closure: c} }
func EtaValue(c *Closure) Value     { return Value{Kind: KindEta, Closure: c} }
func YStarValue() Value             { return Value{Kind: KindYStar} }
func BuiltinValue(b *Builtin) Value { return Value{Kind: KindBuiltin, Builtin: b} }

/*
Display renders a value the way Print and the top-level CLI output do:
raw tuple notation, no quoting of strings.
*/
func (v Value) Display() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindString:
		return v.Str
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNil:
		return "nil"
	case KindDummy:
		return "dummy"
	case KindTuple:
		var buf bytes.Buffer
		buf.WriteString("(")
		for i, item := range v.Tuple {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(item.Display())
		}
		buf.WriteString(")")
		return buf.String()
	case KindClosure, KindEta, KindBuiltin:
		return "[function]"
	case KindYStar:
		return "[Y*]"
	}
	return "?"
}
