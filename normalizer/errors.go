/*
 * ECAL
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package normalizer

import (
	"fmt"

	"github.com/krotik/rpal/parser"
)

/*
Error is raised when an AST node does not have the shape one of the
rewrite rules requires, e.g. a `rec` wrapping something other than a
single `=` binding.
*/
type Error struct {
	Message string
	LineNum int
}

/*
Error returns a human-readable description of this error.
*/
func (e *Error) Error() string {
	return fmt.Sprintf("%v (Line:%d)", e.Message, e.LineNum)
}

/*
Stage identifies the pipeline stage which raised this error.
*/
func (e *Error) Stage() string { return "normalizer" }

/*
Line returns the source line this error occurred on.
*/
func (e *Error) Line() int { return e.LineNum }

func newError(message string, n *parser.ASTNode) *Error {
	return &Error{Message: message, LineNum: firstLine(n)}
}

func firstLine(n *parser.ASTNode) int {
	if n.Token != nil {
		return n.Token.Line
	}

	for _, c := range n.Children {
		if l := firstLine(c); l > 0 {
			return l
		}
	}

	return 0
}
