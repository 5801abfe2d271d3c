// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argspec resolves declared parameter types into argument
// specifications ready to hand to a token parser. Resolution is pure and
// deterministic; all I/O lives in the converters that specs carry.
package argspec

import (
	"fmt"

	"github.com/yeetrun/cmdspec/pkg/argtype"
)

// UnsetRepr is the serialized form of the "no default, required" sentinel.
// It is preserved verbatim in static snapshots.
const UnsetRepr = "==SUPPRESS=="

// Action describes how many tokens an argument consumes and what it stores.
type Action string

const (
	ActionStore        Action = ""
	ActionAppend       Action = "append"
	ActionCount        Action = "count"
	ActionStoreTrue    Action = "store_true"
	ActionBoolOptional Action = "boolean_optional" // --flag / --no-flag pair
)

// Arg is the caller-supplied hint for one command parameter. It is never
// mutated after registration.
type Arg struct {
	Option    string // long option, e.g. "--name"; empty means positional
	Short     string // short option, e.g. "-n"
	Help      string
	Converter Converter // explicit converter, overridden by global exact matches
	Count     bool      // repeated-flag-as-integer semantics
}

// Spec is the fully resolved description of one command parameter.
type Spec struct {
	ID  string // parameter name, also the destination key in result values
	Arg Arg

	// Type is the resolved parseable type. It is nil when the argument is
	// flag-only (bool, count) or when a converter takes over.
	Type *argtype.Type
	// Converter converts the raw token when HasConverter is set.
	Converter Converter
	// OrigType is the declared type before converter substitution, kept for
	// display and snapshot round-trips.
	OrigType *argtype.Type

	Default    any
	HasDefault bool // false means required (the UNSET sentinel)

	Help         string // modified help including the display type
	Action       Action
	Choices      []string
	HasConverter bool
}

// DisplayType returns the type shown in help and documentation output.
func (s *Spec) DisplayType() *argtype.Type {
	if s.HasConverter {
		return s.OrigType
	}
	if s.Type != nil {
		return s.Type
	}
	return s.OrigType
}

// DisplayName returns the option name if the argument is a flag, the
// parameter name otherwise.
func (s *Spec) DisplayName() string {
	if s.Arg.Option != "" {
		return s.Arg.Option
	}
	return s.ID
}

// Positional reports whether the argument is matched by position rather than
// by option name.
func (s *Spec) Positional() bool {
	return s.Arg.Option == ""
}

// ConsumesValue reports whether the argument takes a value token.
func (s *Spec) ConsumesValue() bool {
	switch s.Action {
	case ActionCount, ActionStoreTrue, ActionBoolOptional:
		return false
	}
	return true
}

// NegatedOption returns the --no-X form for a negatable boolean flag, or ""
// for every other argument shape.
func (s *Spec) NegatedOption() string {
	if s.Action != ActionBoolOptional || len(s.Arg.Option) < 3 {
		return ""
	}
	return "--no-" + s.Arg.Option[2:]
}

// DefaultRepr returns the stringified default used in snapshots: the UNSET
// sentinel verbatim when no default exists.
func (s *Spec) DefaultRepr() string {
	if !s.HasDefault {
		return UnsetRepr
	}
	if s.Default == nil {
		return "None"
	}
	return fmt.Sprint(s.Default)
}

// UnsupportedTypeError is raised during registration when a declared type
// cannot be mapped to any argument spec.
type UnsupportedTypeError struct {
	ID   string
	Type *argtype.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type for '%s': %s", e.ID, e.Type.DisplayString())
}

// InvalidArgumentError is raised during registration when a hint/type
// combination is structurally invalid.
type InvalidArgumentError struct {
	ID  string
	Msg string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument '%s': %s", e.ID, e.Msg)
}

// ParserError is any runtime parse or validation failure. It carries a
// human-readable message and terminates the run unless a handler intercepts
// it.
type ParserError struct {
	Msg string
	Err error // underlying cause, if any
}

func (e *ParserError) Error() string { return e.Msg }

func (e *ParserError) Unwrap() error { return e.Err }

// Parserf builds a ParserError from a format string.
func Parserf(format string, args ...any) *ParserError {
	return &ParserError{Msg: fmt.Sprintf(format, args...)}
}
