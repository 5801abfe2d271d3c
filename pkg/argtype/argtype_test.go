// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argtype

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		name string
		typ  *Type
		want string
	}{
		{name: "string", typ: String, want: "str"},
		{name: "int", typ: Int, want: "int"},
		{name: "float", typ: Float, want: "float"},
		{name: "path", typ: Path, want: "Path"},
		{name: "bool", typ: Bool, want: "bool"},
		{name: "none", typ: None, want: "None"},
		{name: "list of int", typ: Slice(Int), want: "List[int]"},
		{name: "optional string", typ: Optional(String), want: "Optional[str]"},
		{name: "nested list", typ: Slice(Slice(String)), want: "List[List[str]]"},
		{name: "union", typ: Union(String, Int), want: "Union[str, int]"},
		{name: "string literals", typ: Literal("a", "b"), want: "Literal['a', 'b']"},
		{name: "int literals", typ: Literal(1, 2), want: "Literal[1, 2]"},
		{name: "enum", typ: Enum("Color", Member{Name: "red"}, Member{Name: "blue"}), want: "Color"},
		{name: "named", typ: Named("Box"), want: "Box"},
		{name: "named generic", typ: Named("Box", String), want: "Box[str]"},
		{name: "alias", typ: NewType("ExistingPath", Path), want: "ExistingPath"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayString(t *testing.T) {
	alias := NewType("ExistingPath", Path)
	if got, want := alias.DisplayString(), "ExistingPath (Path)"; got != want {
		t.Errorf("DisplayString() = %q, want %q", got, want)
	}
	if got, want := Slice(Int).DisplayString(), "List[int]"; got != want {
		t.Errorf("DisplayString() = %q, want %q", got, want)
	}
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
	}{
		{typ: Named("Box", String), want: "Box"},
		{typ: Named("Box"), want: "Box"},
		{typ: Slice(Int), want: "List"},
		{typ: String, want: "str"},
	}
	for _, tt := range tests {
		if got := tt.typ.Origin(); got != tt.want {
			t.Errorf("Origin(%s) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []string{
		"str", "int", "float", "Path", "bool", "None",
		"List[int]", "Optional[str]", "List[List[str]]",
		"Box", "Box[str]", "Union[str, int]",
	}
	for _, s := range tests {
		if got := Parse(s).String(); got != s {
			t.Errorf("Parse(%q).String() = %q", s, got)
		}
	}
	if Parse("") != nil {
		t.Error("Parse(\"\") != nil")
	}
	if got := Parse("List[int]"); got.Kind != KindList || got.Elem().Kind != KindInt {
		t.Errorf("Parse(List[int]) = kind %v, elem %v", got.Kind, got.Elem())
	}
}

func TestMemberNames(t *testing.T) {
	e := Enum("Color", Member{Name: "red", Value: 0}, Member{Name: "blue", Value: 1})
	want := []string{"red", "blue"}
	got := e.MemberNames()
	if len(got) != len(want) {
		t.Fatalf("MemberNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MemberNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
