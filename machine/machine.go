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
	"io"

	"github.com/emirpasic/gods/stacks/linkedliststack"
	"github.com/krotik/rpal/environment"
	"github.com/krotik/rpal/parser"
	"github.com/krotik/rpal/util"
)

/*
Machine is a single run of the CSE abstract machine. A Machine is used
once: construct it with New, then call Run.
*/
type Machine struct {
	table        *controlTable
	C            *linkedliststack.Stack
	S            *linkedliststack.Stack
	Env          *environment.Environment
	Out          io.Writer
	Log          util.Logger
	MaxCallDepth int
	callDepth    int
	nextEnvIndex int
}

/*
New creates a Machine with a fresh primitive environment e0, bound to
the fourteen built-in functions, writing Print output to out. A nil
logger is replaced with a NullLogger so callers that do not care about
Debug-level tracing never have to construct one.
*/
func New(out io.Writer, maxCallDepth int, logger util.Logger) *Machine {
	root := environment.NewRoot()
	installBuiltins(root)

	if logger == nil {
		logger = util.NewNullLogger()
	}

	return &Machine{
		C:            linkedliststack.New(),
		S:            linkedliststack.New(),
		Env:          root,
		Out:          out,
		Log:          logger,
		MaxCallDepth: maxCallDepth,
	}
}

/*
Run evaluates a Standardized Tree to its final Value.
*/
func (m *Machine) Run(st *parser.ASTNode) (Value, error) {
	m.table = buildControlTable(st)

	m.S.Push(m.Env)
	m.C.Push(m.Env)
	m.pushStructure(0)

	for !m.C.Empty() {
		if err := m.step(); err != nil {
			return Value{}, err
		}
	}

	raw, ok := m.S.Pop()
	if !ok {
		return Value{}, evalError(0, "evaluation produced no value")
	}

	val, ok := raw.(Value)
	if !ok {
		return Value{}, evalError(0, "evaluation left an unresolved environment marker")
	}

	return val, nil
}

func (m *Machine) pushStructure(index int) {
	for _, item := range m.table.structures[index] {
		m.C.Push(item)
	}
}

func (m *Machine) popValue() (Value, bool) {
	raw, ok := m.S.Pop()
	if !ok {
		return Value{}, false
	}
	v, ok := raw.(Value)
	return v, ok
}

func (m *Machine) peekValue() (Value, bool) {
	raw, ok := m.S.Peek()
	if !ok {
		return Value{}, false
	}
	v, ok := raw.(Value)
	return v, ok
}

func (m *Machine) step() error {
	raw, _ := m.C.Pop()

	if env, ok := raw.(*environment.Environment); ok {
		return m.ruleEnvExit(env)
	}

	item := raw.(controlItem)

	switch item.Kind {

	case itemLeaf:
		m.S.Push(item.Leaf)
		return nil

	case itemIdentifier:
		v, ok := m.Env.Lookup(item.Name)
		if !ok {
			return evalError(item.Line, "unbound identifier %q", item.Name)
		}
		m.S.Push(v.(Value))
		return nil

	case itemLambda:
		m.S.Push(ClosureValue(&Closure{StructIndex: item.Struct, BoundVars: item.BoundVars, Env: m.Env}))
		return nil

	case itemBeta:
		cond, ok := m.popValue()
		if !ok || cond.Kind != KindBool {
			return evalError(item.Line, "condition of '->' did not evaluate to a truth value")
		}
		if cond.Bool {
			m.pushStructure(item.Struct)
		} else {
			m.pushStructure(item.Else)
		}
		return nil

	case itemTau:
		items := make([]Value, item.TauCount)
		for i := 0; i < item.TauCount; i++ {
			v, ok := m.popValue()
			if !ok {
				return evalError(item.Line, "tuple construction underflowed the stack")
			}
			items[i] = v
		}
		m.S.Push(TupleValue(items))
		return nil

	case itemUnOp:
		return m.applyUnOp(item)

	case itemBinOp:
		return m.applyBinOp(item)

	case itemGamma:
		return m.applyGamma(item)
	}

	return evalError(item.Line, "unrecognized control item")
}

func (m *Machine) ruleEnvExit(marker *environment.Environment) error {
	result, ok := m.popValue()
	if !ok {
		return evalError(0, "environment exit found no result value on the stack")
	}

	if _, ok := m.S.Pop(); !ok {
		return evalError(0, "environment exit found no matching environment marker")
	}

	if outer, ok := m.S.Peek(); ok {
		if outerEnv, ok := outer.(*environment.Environment); ok {
			m.Env = outerEnv
		}
	}

	m.S.Push(result)
	m.callDepth--

	return nil
}

func (m *Machine) applyGamma(item controlItem) error {
	top, ok := m.peekValue()
	if !ok {
		return evalError(item.Line, "function application found nothing on the stack")
	}

	switch top.Kind {

	case KindClosure:
		return m.applyClosure(item)

	case KindYStar:
		m.S.Pop() // discard Y*
		closure, ok := m.popValue()
		if !ok || closure.Kind != KindClosure {
			return evalError(item.Line, "Y* must be applied directly to a function")
		}
		m.S.Push(EtaValue(closure.Closure))
		return nil

	case KindEta:
		// Unroll one level of the fixed point: apply the wrapped
		// lambda to the eta-closure itself, then apply the result to
		// the original argument, which is left untouched below eta.
		m.S.Push(ClosureValue(top.Closure))
		m.C.Push(controlItem{Kind: itemGamma, Line: item.Line})
		m.C.Push(controlItem{Kind: itemGamma, Line: item.Line})
		return nil

	case KindBuiltin:
		m.S.Pop() // the builtin
		arg, ok := m.popValue()
		if !ok {
			return evalError(item.Line, "%s called without an argument", top.Builtin.Name)
		}
		m.Log.LogDebug("calling builtin ", top.Builtin.Name, " with ", arg.Display())
		result, err := top.Builtin.Fn(m, arg)
		if err != nil {
			if ee, ok := err.(*EvaluationError); ok && ee.LineNum == 0 {
				ee.LineNum = item.Line
			}
			return err
		}
		m.S.Push(result)
		return nil

	case KindTuple:
		m.S.Pop() // the tuple
		arg, ok := m.popValue()
		if !ok || arg.Kind != KindInt {
			return evalError(item.Line, "tuple selection requires an integer index")
		}
		if arg.Int < 1 || arg.Int > len(top.Tuple) {
			return evalError(item.Line, "tuple index %d out of range", arg.Int)
		}
		m.S.Push(top.Tuple[arg.Int-1])
		return nil
	}

	return evalError(item.Line, "value of kind %v is not applicable", top.Kind)
}

func (m *Machine) applyClosure(item controlItem) error {
	closureVal, _ := m.popValue()
	arg, ok := m.popValue()
	if !ok {
		return evalError(item.Line, "function called without an argument")
	}

	m.callDepth++
	if m.MaxCallDepth > 0 && m.callDepth > m.MaxCallDepth {
		return evalError(item.Line, ErrStackOverflow)
	}

	bindings, err := bindPattern(closureVal.Closure.BoundVars, arg)
	if err != nil {
		return err
	}

	m.nextEnvIndex++
	newEnv := closureVal.Closure.Env.NewChild(m.nextEnvIndex, bindings)
	m.Log.LogDebug("creating environment e", m.nextEnvIndex, " under e", closureVal.Closure.Env.Index)

	m.C.Push(newEnv)
	m.pushStructure(closureVal.Closure.StructIndex)

	m.S.Push(newEnv)
	m.Env = newEnv

	return nil
}

func bindPattern(pattern *parser.ASTNode, arg Value) (map[string]interface{}, error) {
	if pattern.Name == parser.NodeIdentifier {
		return map[string]interface{}{pattern.Token.Lexeme: arg}, nil
	}

	// NodeComma: either the empty tuple pattern "()" or a parenthesized
	// list of names bound pointwise against a matching tuple argument.
	if len(pattern.Children) == 0 {
		return map[string]interface{}{}, nil
	}

	if arg.Kind != KindTuple || len(arg.Tuple) != len(pattern.Children) {
		return nil, evalError(0, "function parameter pattern does not match the argument's arity")
	}

	bindings := make(map[string]interface{}, len(pattern.Children))
	for i, p := range pattern.Children {
		bindings[p.Token.Lexeme] = arg.Tuple[i]
	}

	return bindings, nil
}
