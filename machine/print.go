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
	"bytes"
	"fmt"
	"strings"

	"github.com/cnf/structhash"
	"golang.org/x/exp/slices"
)

/*
PrettyPrint renders a final Value the way the -pretty CLI flag does: a
tuple whose elements are all integers, all strings or all truth values
is sorted into natural order (false before true) before being
displayed; any other value, a tuple mixing kinds, or a tuple of some
other single kind is printed exactly as Display would.
*/
func PrettyPrint(v Value) string {
	if v.Kind != KindTuple || !uniformKind(v.Tuple) {
		return v.Display()
	}

	sorted := make([]Value, len(v.Tuple))
	copy(sorted, v.Tuple)

	switch sorted[0].Kind {
	case KindInt:
		slices.SortFunc(sorted, func(a, b Value) int { return a.Int - b.Int })
	case KindString:
		slices.SortFunc(sorted, func(a, b Value) int { return strings.Compare(a.Str, b.Str) })
	case KindBool:
		slices.SortFunc(sorted, func(a, b Value) int { return boolRank(a.Bool) - boolRank(b.Bool) })
	default:
		return v.Display()
	}

	return TupleValue(sorted).Display()
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func uniformKind(items []Value) bool {
	if len(items) == 0 {
		return true
	}
	k := items[0].Kind
	for _, item := range items {
		if item.Kind != k {
			return false
		}
	}
	return true
}

/*
hashable is the value structhash actually sees: Value itself carries
pointer fields (Closure, Builtin) that structhash cannot usefully
digest, so Fingerprint flattens a value down to its printable form
first.
*/
type hashable struct {
	Kind    string
	Display string
}

/*
Fingerprint returns a short structhash digest of a value's printed
form, stable across runs on identical source, for use by the
-fingerprint CLI flag.
*/
func Fingerprint(v Value) (string, error) {
	h, err := structhash.Hash(hashable{Kind: v.Kind.String(), Display: v.Display()}, 1)
	if err != nil {
		return "", fmt.Errorf("could not compute fingerprint: %w", err)
	}
	return h, nil
}

/*
FormatResult renders a value (through PrettyPrint when pretty is set)
and, when fingerprint is set, its fingerprint on a second line, as
printed by `myrpal -fingerprint`.
*/
func FormatResult(v Value, pretty bool, fingerprint bool) (string, error) {
	var buf bytes.Buffer

	if pretty {
		buf.WriteString(PrettyPrint(v))
	} else {
		buf.WriteString(v.Display())
	}

	if fingerprint {
		h, err := Fingerprint(v)
		if err != nil {
			return "", err
		}
		buf.WriteString("\n")
		buf.WriteString(h)
	}

	return buf.String(), nil
}
