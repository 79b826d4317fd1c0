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
Package environment implements the environment tree used by the CSE
machine. Each frame holds a flat set of name-to-value bindings and a
pointer to its parent; lookups walk the parent chain. Frames are
frozen at construction: once bound, a name's value never changes,
matching the single-threaded, no-mutation evaluation model.
*/
package environment

import (
	"bytes"
	"fmt"

	"github.com/krotik/common/errorutil"
)

/*
Environment is a single frame in the environment tree.
*/
type Environment struct {
	Index    int // index assigned when this frame was created, for diagnostics
	parent   *Environment
	bindings map[string]interface{}
}

/*
NewRoot creates the root (primitive) environment e0, which has no
parent and holds the built-in function bindings.
*/
func NewRoot() *Environment {
	return &Environment{Index: 0, bindings: make(map[string]interface{})}
}

/*
NewChild creates a new frame whose parent is e, pre-populated with the
given bindings. Frames are never mutated after this call.
*/
func (e *Environment) NewChild(index int, bindings map[string]interface{}) *Environment {
	errorutil.AssertTrue(bindings != nil, "environment child must be given its bindings at construction")
	return &Environment{Index: index, parent: e, bindings: bindings}
}

/*
Parent returns the enclosing frame, or nil for the root.
*/
func (e *Environment) Parent() *Environment {
	return e.parent
}

/*
Lookup resolves name by walking from e outwards through its ancestors.
Returns the bound value and true, or false if name is unbound anywhere
on the chain.
*/
func (e *Environment) Lookup(name string) (interface{}, bool) {
	for frame := e; frame != nil; frame = frame.parent {
		if v, ok := frame.bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

/*
Bind installs a value in this frame directly. Used only while a frame
is being constructed (function() application sites call NewChild
instead); exposed for the root environment's built-in registration.
*/
func (e *Environment) Bind(name string, value interface{}) {
	e.bindings[name] = value
}

/*
String returns a debug dump of this frame and its ancestors.
*/
func (e *Environment) String() string {
	var buf bytes.Buffer

	for frame := e; frame != nil; frame = frame.parent {
		fmt.Fprintf(&buf, "e%d {", frame.Index)
		first := true
		for k := range frame.bindings {
			if !first {
				buf.WriteString(", ")
			}
			buf.WriteString(k)
			first = false
		}
		buf.WriteString("}")
		if frame.parent != nil {
			buf.WriteString(" -> ")
		}
	}

	return buf.String()
}
