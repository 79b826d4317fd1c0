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
Package normalizer rewrites an RPAL AST into a Standardized Tree (ST)
using only the restricted label set lambda, gamma, ->, tau, =, Y* plus
operators and leaves. Rewriting is local and applied bottom-up: each
node's children are normalized first, then the node itself is rewritten
according to its own tag.
*/
package normalizer

import "github.com/krotik/rpal/parser"

/*
Normalize rewrites an AST produced by the parser into its ST form.
Returns a *Error if a node has a shape the rules do not cover (e.g. a
`rec` wrapping something other than an `=` definition).
*/
func Normalize(ast *parser.ASTNode) (*parser.ASTNode, error) {
	return normalize(ast)
}

func normalize(n *parser.ASTNode) (*parser.ASTNode, error) {
	children := make([]*parser.ASTNode, len(n.Children))

	for i, c := range n.Children {
		nc, err := normalize(c)
		if err != nil {
			return nil, err
		}
		children[i] = nc
	}

	node := &parser.ASTNode{Name: n.Name, Token: n.Token, Children: children}

	switch node.Name {

	case parser.NodeLet:
		d, e := node.Children[0], node.Children[1]

		if d.Name != parser.NodeEqual {
			return nil, newError("'let' definition did not reduce to a single binding", node)
		}

		x, p := d.Children[0], d.Children[1]
		return parser.NewNode(parser.NodeGamma, parser.NewNode(parser.NodeLambda, x, e), p), nil

	case parser.NodeWhere:
		t, d := node.Children[0], node.Children[1]

		if d.Name != parser.NodeEqual {
			return nil, newError("'where' definition did not reduce to a single binding", node)
		}

		x, p := d.Children[0], d.Children[1]
		return parser.NewNode(parser.NodeGamma, parser.NewNode(parser.NodeLambda, x, t), p), nil

	case parser.NodeFcnForm:
		f := node.Children[0]
		params := node.Children[1 : len(node.Children)-1]
		body := node.Children[len(node.Children)-1]

		return parser.NewNode(parser.NodeEqual, f, nestLambda(params, body)), nil

	case parser.NodeLambda:
		params := node.Children[:len(node.Children)-1]
		body := node.Children[len(node.Children)-1]

		return nestLambda(params, body), nil

	case parser.NodeWithin:
		d1, d2 := node.Children[0], node.Children[1]

		if d1.Name != parser.NodeEqual || d2.Name != parser.NodeEqual {
			return nil, newError("'within' operands did not reduce to single bindings", node)
		}

		x1, e1 := d1.Children[0], d1.Children[1]
		x2, e2 := d2.Children[0], d2.Children[1]

		return parser.NewNode(parser.NodeEqual, x2,
			parser.NewNode(parser.NodeGamma, parser.NewNode(parser.NodeLambda, x1, e2), e1)), nil

	case parser.NodeAndDefs:
		xs := make([]*parser.ASTNode, 0, len(node.Children))
		es := make([]*parser.ASTNode, 0, len(node.Children))

		for _, d := range node.Children {
			if d.Name != parser.NodeEqual {
				return nil, newError("'and' operand is not a binding", node)
			}
			xs = append(xs, d.Children[0])
			es = append(es, d.Children[1])
		}

		return parser.NewNode(parser.NodeEqual,
			parser.NewNode(parser.NodeTau, xs...), parser.NewNode(parser.NodeTau, es...)), nil

	case parser.NodeRec:
		d := node.Children[0]

		if d.Name != parser.NodeEqual {
			return nil, newError("'rec' operand is not a binding", node)
		}

		x, e := d.Children[0], d.Children[1]

		return parser.NewNode(parser.NodeEqual, x,
			parser.NewNode(parser.NodeGamma, parser.NewNode(parser.NodeYStar), parser.NewNode(parser.NodeLambda, x, e))), nil

	case parser.NodeAt:
		e1, id, e2 := node.Children[0], node.Children[1], node.Children[2]

		return parser.NewNode(parser.NodeGamma, parser.NewNode(parser.NodeGamma, id, e1), e2), nil
	}

	return node, nil
}

/*
nestLambda right-folds a list of bound-variable patterns and a body into
a chain of single-parameter lambdas.
*/
func nestLambda(params []*parser.ASTNode, body *parser.ASTNode) *parser.ASTNode {
	result := body

	for i := len(params) - 1; i >= 0; i-- {
		result = parser.NewNode(parser.NodeLambda, params[i], result)
	}

	return result
}
