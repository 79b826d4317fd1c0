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
	"fmt"

	"github.com/pterm/pterm"
)

/*
label returns the text pterm should render for a single node, without
its children.
*/
func (n *ASTNode) label() string {
	switch n.Name {
	case NodeIdentifier, NodeInteger:
		return fmt.Sprintf("<%v:%v>", n.Name, n.Token.Lexeme)
	case NodeString:
		return fmt.Sprintf("<%v:'%v'>", n.Name, n.Token.Lexeme)
	}
	return n.Name
}

/*
TreeNode converts this node and its subtree into a pterm.TreeNode, for
rendering via pterm.DefaultTree. This backs the supplemental `-tree`
display mode.
*/
func (n *ASTNode) TreeNode() pterm.TreeNode {
	tn := pterm.TreeNode{Text: n.label()}

	for _, c := range n.Children {
		tn.Children = append(tn.Children, c.TreeNode())
	}

	return tn
}

/*
RenderTree renders this node and its subtree as a pterm tree and
returns the resulting text.
*/
func (n *ASTNode) RenderTree() (string, error) {
	return pterm.DefaultTree.WithRoot(n.TreeNode()).Srender()
}
