// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argtype

import "strings"

// Parse maps a canonical type string back to a Type. Primitives and their
// List/Optional wrappers reconstruct structurally; any other string becomes
// a named type whose canonical form is the input, so converter-table keys
// and generic-origin lookups keep working after a snapshot reload.
func Parse(s string) *Type {
	switch s {
	case "":
		return nil
	case "str":
		return String
	case "int":
		return Int
	case "float":
		return Float
	case "Path":
		return Path
	case "bool":
		return Bool
	case "None":
		return None
	}
	if inner, ok := bracketed(s, "List"); ok {
		return Slice(Parse(inner))
	}
	if inner, ok := bracketed(s, "Optional"); ok {
		return Optional(Parse(inner))
	}
	return &Type{Kind: KindNamed, Name: s}
}

func bracketed(s, origin string) (string, bool) {
	if strings.HasPrefix(s, origin+"[") && strings.HasSuffix(s, "]") {
		return s[len(origin)+1 : len(s)-1], true
	}
	return "", false
}
