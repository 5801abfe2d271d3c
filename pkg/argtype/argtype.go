// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argtype models the semantic type of a command parameter. Types are
// plain values with a canonical string form (e.g. "str", "List[int]",
// "Box[str]") which doubles as the lookup key for converter tables and the
// serialized form in static snapshots.
package argtype

import (
	"fmt"
	"strings"
)

// Kind enumerates the shapes a parameter type can take.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindPath
	KindBool
	KindList
	KindOptional
	KindUnion
	KindLiteral
	KindEnum
	KindNamed // custom or generic type, identified by name
	KindNone  // the nil alternative inside unions
)

// Member is a single enum member: a display name and the value it maps to.
type Member struct {
	Name  string
	Value any
}

// Type describes a declared parameter type. The zero value is not valid; use
// the constructors. Types are immutable once constructed.
type Type struct {
	Kind     Kind
	Name     string  // Named and Enum types
	Args     []*Type // List element, Optional/Union alternatives, Named type args
	Literals []any   // Literal values
	Members  []Member
	Super    *Type // NewType-style alias base, display only
}

// Base types, in converter-priority order for list element resolution.
var (
	String = &Type{Kind: KindString}
	Int    = &Type{Kind: KindInt}
	Float  = &Type{Kind: KindFloat}
	Path   = &Type{Kind: KindPath}
	Bool   = &Type{Kind: KindBool}

	// None marks the nullable alternative of a union. Optional(T) is
	// shorthand for Union(T, None).
	None = &Type{Kind: KindNone}
)

// BaseTypes is the fixed priority order used when picking the element type of
// a list or union: first match wins, string first.
var BaseTypes = []*Type{String, Int, Float, Path}

// Slice returns a list type with the given element type.
func Slice(elem *Type) *Type {
	return &Type{Kind: KindList, Args: []*Type{elem}}
}

// Optional wraps t so that an unset value defaults to nil.
func Optional(t *Type) *Type {
	return &Type{Kind: KindOptional, Args: []*Type{t}}
}

// Union builds a union of two or more alternatives. Resolution only ever
// considers the first alternative; see the resolver for the tie-break rule.
func Union(alts ...*Type) *Type {
	return &Type{Kind: KindUnion, Args: alts}
}

// Literal builds a closed choice set from the given values. Values should all
// share one primitive type; the first value decides how tokens are parsed.
func Literal(vals ...any) *Type {
	return &Type{Kind: KindLiteral, Literals: vals}
}

// Enum builds an enumeration type with the given members.
func Enum(name string, members ...Member) *Type {
	return &Type{Kind: KindEnum, Name: name, Members: members}
}

// Named builds a custom (optionally generic) type identified by name, e.g.
// Named("Box", String) for Box[str].
func Named(name string, args ...*Type) *Type {
	return &Type{Kind: KindNamed, Name: name, Args: args}
}

// NewType builds a named alias of another type, e.g. ExistingPath over Path.
// The alias keeps its own identity for converter lookups; the super type only
// shows up in display strings.
func NewType(name string, super *Type) *Type {
	return &Type{Kind: KindNamed, Name: name, Super: super}
}

// String returns the canonical form used as converter-table key and in
// snapshots.
func (t *Type) String() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case KindString:
		return "str"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindPath:
		return "Path"
	case KindBool:
		return "bool"
	case KindList:
		return "List[" + t.Args[0].String() + "]"
	case KindOptional:
		return "Optional[" + t.Args[0].String() + "]"
	case KindUnion:
		return "Union[" + joinTypes(t.Args) + "]"
	case KindLiteral:
		parts := make([]string, len(t.Literals))
		for i, v := range t.Literals {
			parts[i] = literalRepr(v)
		}
		return "Literal[" + strings.Join(parts, ", ") + "]"
	case KindEnum:
		return t.Name
	case KindNamed:
		if len(t.Args) > 0 {
			return t.Name + "[" + joinTypes(t.Args) + "]"
		}
		return t.Name
	case KindNone:
		return "None"
	}
	return ""
}

// DisplayString is the human-facing form used in help text. It matches
// String except for named aliases, which render as "Name (Super)".
func (t *Type) DisplayString() string {
	if t == nil {
		return ""
	}
	if t.Kind == KindNamed && t.Super != nil {
		return fmt.Sprintf("%s (%s)", t.Name, t.Super.DisplayString())
	}
	return t.String()
}

// Origin returns the generic origin of t: the canonical string up to the
// first bracket. For non-generic types it equals String.
func (t *Type) Origin() string {
	s := t.String()
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}

// IsGeneric reports whether t is a specific instantiation of a generic type,
// i.e. whether Origin differs from String.
func (t *Type) IsGeneric() bool {
	return t != nil && t.Kind == KindNamed && len(t.Args) > 0
}

// Elem returns the element type of a list, or nil.
func (t *Type) Elem() *Type {
	if t == nil || t.Kind != KindList || len(t.Args) == 0 {
		return nil
	}
	return t.Args[0]
}

// MemberNames returns the names of an enum's members in declaration order.
func (t *Type) MemberNames() []string {
	names := make([]string, len(t.Members))
	for i, m := range t.Members {
		names[i] = m.Name
	}
	return names
}

// Is reports whether t and other have the same canonical form.
func (t *Type) Is(other *Type) bool {
	return t != nil && other != nil && t.String() == other.String()
}

func joinTypes(ts []*Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func literalRepr(v any) string {
	if s, ok := v.(string); ok {
		return "'" + s + "'"
	}
	return fmt.Sprint(v)
}
