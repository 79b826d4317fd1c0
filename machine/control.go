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
	"strconv"

	"github.com/krotik/common/errorutil"
	"github.com/krotik/rpal/parser"
)

func mustInt(lexeme string) Value {
	n, _ := strconv.Atoi(lexeme)
	return IntValue(n)
}

/*
itemKind identifies the case of a single flattened control item.
*/
type itemKind int

const (
	itemLeaf itemKind = iota
	itemIdentifier
	itemLambda
	itemGamma
	itemBinOp
	itemUnOp
	itemBeta
	itemTau
)

/*
controlItem is one element of a flattened control structure: either a
leaf ready to push directly, an identifier to resolve, an operator
marker, a λ marker referencing a hoisted body structure, or a
conditional β marker referencing two hoisted branch structures.
*/
type controlItem struct {
	Kind      itemKind
	Leaf      Value
	Name      string // identifier name, or operator tag
	Struct    int    // lambda body index, or beta then-branch index
	Else      int    // beta else-branch index
	BoundVars *parser.ASTNode
	TauCount  int
	Line      int
}

/*
controlTable holds every flattened control structure. Structure 0 is
always the program root.
*/
type controlTable struct {
	structures [][]controlItem
}

func newControlTable() *controlTable {
	return &controlTable{}
}

func (t *controlTable) add(items []controlItem) int {
	t.structures = append(t.structures, items)
	return len(t.structures) - 1
}

/*
buildControlTable flattens a Standardized Tree into an indexed table of
control structures. Structure 0 is the flattened root; its index is
reserved before recursing so nested structures (λ bodies, conditional
branches) are free to append themselves from index 1 onward.
*/
func buildControlTable(st *parser.ASTNode) *controlTable {
	t := newControlTable()
	t.structures = append(t.structures, nil)
	t.structures[0] = flatten(t, st)
	t.verify()
	return t
}

/*
verify checks that every hoisted structure reference flatten produced
actually lands inside the table. A failure here means a bug in
flatten's own bookkeeping, never a property of the source program, so
it is an assertion rather than a returned error.
*/
func (t *controlTable) verify() {
	for _, items := range t.structures {
		for _, item := range items {
			if item.Kind == itemLambda || item.Kind == itemBeta {
				errorutil.AssertTrue(item.Struct >= 0 && item.Struct < len(t.structures),
					"control item references a structure index outside the table")
			}
			if item.Kind == itemBeta {
				errorutil.AssertTrue(item.Else >= 0 && item.Else < len(t.structures),
					"beta item references an else-branch index outside the table")
			}
			if item.Kind == itemTau {
				errorutil.AssertTrue(item.TauCount >= 0, "tau item has a negative arity")
			}
		}
	}
}

func flatten(t *controlTable, n *parser.ASTNode) []controlItem {
	line := 0
	if n.Token != nil {
		line = n.Token.Line
	}

	switch n.Name {

	case parser.NodeIdentifier:
		return []controlItem{{Kind: itemIdentifier, Name: n.Token.Lexeme, Line: line}}

	case parser.NodeInteger:
		return []controlItem{{Kind: itemLeaf, Leaf: mustInt(n.Token.Lexeme), Line: line}}

	case parser.NodeString:
		return []controlItem{{Kind: itemLeaf, Leaf: StringValue(n.Token.Lexeme), Line: line}}

	case parser.NodeTrue:
		return []controlItem{{Kind: itemLeaf, Leaf: BoolValue(true), Line: line}}

	case parser.NodeFalse:
		return []controlItem{{Kind: itemLeaf, Leaf: BoolValue(false), Line: line}}

	case parser.NodeNil:
		return []controlItem{{Kind: itemLeaf, Leaf: NilValue(), Line: line}}

	case parser.NodeDummy:
		return []controlItem{{Kind: itemLeaf, Leaf: DummyValue(), Line: line}}

	case parser.NodeYStar:
		return []controlItem{{Kind: itemLeaf, Leaf: YStarValue(), Line: line}}

	case parser.NodeLambda:
		bodyIndex := t.add(flatten(t, n.Children[1]))
		return []controlItem{{Kind: itemLambda, Struct: bodyIndex, BoundVars: n.Children[0], Line: line}}

	case parser.NodeCond:
		thenIndex := t.add(flatten(t, n.Children[1]))
		elseIndex := t.add(flatten(t, n.Children[2]))
		items := []controlItem{{Kind: itemBeta, Struct: thenIndex, Else: elseIndex, Line: line}}
		return append(items, flatten(t, n.Children[0])...)

	case parser.NodeGamma:
		items := []controlItem{{Kind: itemGamma, Line: line}}
		items = append(items, flatten(t, n.Children[0])...)
		items = append(items, flatten(t, n.Children[1])...)
		return items

	case parser.NodeTau:
		items := []controlItem{{Kind: itemTau, TauCount: len(n.Children), Line: line}}
		for _, c := range n.Children {
			items = append(items, flatten(t, c)...)
		}
		return items

	case parser.NodeNot, parser.NodeNeg:
		items := []controlItem{{Kind: itemUnOp, Name: n.Name, Line: line}}
		return append(items, flatten(t, n.Children[0])...)

	default:
		// Binary operators: +, -, *, /, **, or, &, gr, ge, ls, le, eq, ne, aug
		items := []controlItem{{Kind: itemBinOp, Name: n.Name, Line: line}}
		items = append(items, flatten(t, n.Children[0])...)
		items = append(items, flatten(t, n.Children[1])...)
		return items
	}
}
