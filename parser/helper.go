/*
 * ECAL
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import (
	"bytes"
	"fmt"

	"github.com/krotik/common/datautil"
	"github.com/krotik/common/stringutil"
)

// AST / ST node labels
// ====================

/*
Node labels used by the AST produced by the parser and the ST produced by
the normalizer. The normalizer only ever produces a subset of these
(NodeLet, NodeWhere and NodeFcnForm never survive normalization).
*/
const (
	NodeLet       = "let"
	NodeLambda    = "lambda"
	NodeWhere     = "where"
	NodeTau       = "tau"
	NodeAug       = "aug"
	NodeCond      = "->"
	NodeOr        = "or"
	NodeAnd2      = "&"
	NodeNot       = "not"
	NodeGr        = "gr"
	NodeGe        = "ge"
	NodeLs        = "ls"
	NodeLe        = "le"
	NodeEq        = "eq"
	NodeNe        = "ne"
	NodePlus      = "+"
	NodeMinus     = "-"
	NodeNeg       = "neg"
	NodeMul       = "*"
	NodeDiv       = "/"
	NodePow       = "**"
	NodeAt        = "@"
	NodeGamma     = "gamma"
	NodeWithin    = "within"
	NodeAndDefs   = "and"
	NodeRec       = "rec"
	NodeEqual     = "="
	NodeFcnForm   = "function_form"
	NodeComma     = ","
	NodeIdentifier = "ID"
	NodeInteger   = "INT"
	NodeString    = "STR"
	NodeTrue      = "<true>"
	NodeFalse     = "<false>"
	NodeNil       = "<nil>"
	NodeDummy     = "<dummy>"
	NodeYStar     = "<Y*>"
)

/*
ASTNode is a node in the AST or, after normalization, the ST. Both trees
share this single tagged-variant type; the normalizer only restricts the
set of labels that appear.
*/
type ASTNode struct {
	Name     string     // Node label (one of the Node* constants)
	Token    *LexToken  // Lexer token this node originates from (leaves only)
	Children []*ASTNode // Child nodes, left to right
}

/*
NewLeaf creates a leaf ASTNode carrying a lexer token.
*/
func NewLeaf(name string, token LexToken) *ASTNode {
	return &ASTNode{Name: name, Token: &token}
}

/*
NewNode creates an interior ASTNode with the given children.
*/
func NewNode(name string, children ...*ASTNode) *ASTNode {
	return &ASTNode{Name: name, Children: children}
}

/*
Equals checks if this node (and its subtree) equals another. Returns
also a message describing the first found difference.
*/
func (n *ASTNode) Equals(other *ASTNode) (bool, string) {
	return n.equalsPath(n.Name, other)
}

func (n *ASTNode) equalsPath(path string, other *ASTNode) (bool, string) {
	if n.Name != other.Name {
		return false, fmt.Sprintf("Name is different %v vs %v at %v", n.Name, other.Name, path)
	}

	if n.Token != nil && other.Token != nil && n.Token.Lexeme != other.Token.Lexeme {
		return false, fmt.Sprintf("Token is different %v vs %v at %v", n.Token.Lexeme, other.Token.Lexeme, path)
	}

	if len(n.Children) != len(other.Children) {
		return false, fmt.Sprintf("Number of children is different %v vs %v at %v",
			len(n.Children), len(other.Children), path)
	}

	for i, child := range n.Children {
		if ok, msg := child.equalsPath(fmt.Sprintf("%v > %v", path, child.Name), other.Children[i]); !ok {
			return ok, msg
		}
	}

	return true, ""
}

/*
String returns the dot-indented tree representation required by the
`-ast`/`-sast` CLI flags: one line per node, each level of depth prefixed
by a single "." character.
*/
func (n *ASTNode) String() string {
	var buf bytes.Buffer
	n.levelString(0, &buf, ".")
	return buf.String()
}

/*
StringIndent is like String but uses the given indent unit character
instead of the default ".".
*/
func (n *ASTNode) StringIndent(unit string) string {
	var buf bytes.Buffer
	n.levelString(0, &buf, unit)
	return buf.String()
}

func (n *ASTNode) levelString(indent int, buf *bytes.Buffer, unit string) {
	buf.WriteString(stringutil.GenerateRollingString(unit, indent))

	switch n.Name {
	case NodeIdentifier, NodeInteger:
		buf.WriteString(fmt.Sprintf("<%v:%v>", n.Name, n.Token.Lexeme))
	case NodeString:
		buf.WriteString(fmt.Sprintf("<%v:'%v'>", n.Name, n.Token.Lexeme))
	default:
		buf.WriteString(n.Name)
	}

	buf.WriteString("\n")

	for _, child := range n.Children {
		child.levelString(indent+1, buf, unit)
	}
}

// Look ahead buffer
// =================

/*
laBuffer is a look-ahead buffer over an eagerly-produced token slice,
built on the same datautil.RingBuffer the buffer model below is named
after.
*/
type laBuffer struct {
	tokens []LexToken
	pos    int
	ring   *datautil.RingBuffer
}

/*
newLABuffer creates a look-ahead buffer of the given depth over tokens.
*/
func newLABuffer(tokens []LexToken, depth int) *laBuffer {
	if depth < 1 {
		depth = 1
	}

	b := &laBuffer{tokens: tokens, ring: datautil.NewRingBuffer(depth)}

	for i := 0; i < depth && i < len(tokens); i++ {
		b.ring.Add(tokens[i])
	}
	b.pos = depth
	if b.pos > len(tokens) {
		b.pos = len(tokens)
	}

	return b
}

/*
Next consumes and returns the current token, advancing the buffer.
*/
func (b *laBuffer) Next() LexToken {
	v := b.ring.Poll()

	if b.pos < len(b.tokens) {
		b.ring.Add(b.tokens[b.pos])
		b.pos++
	}

	if v == nil {
		return LexToken{ID: TokenEOF}
	}

	return v.(LexToken)
}

/*
Peek looks inside the buffer, 0 being the current (not yet consumed)
token.
*/
func (b *laBuffer) Peek(offset int) LexToken {
	if offset >= b.ring.Size() {
		return LexToken{ID: TokenEOF}
	}

	v := b.ring.Get(offset)
	if v == nil {
		return LexToken{ID: TokenEOF}
	}

	return v.(LexToken)
}
