// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tokens matches a raw argument vector against a declarative list of
// argument specs. The grammar layer consumes it through the Parser interface;
// the default implementation delegates option matching to spf13/pflag and
// collects tokens it cannot match instead of failing on them.
package tokens

import (
	"fmt"

	"github.com/yeetrun/cmdspec/pkg/argspec"
)

// Result is the outcome of one parse pass.
type Result struct {
	// Values maps destination keys to converted values. Only explicitly
	// provided arguments appear; defaults are the caller's business.
	Values map[string]any
	// Extras are the tokens that matched no spec, in input order.
	Extras []string
}

// Parser converts a token vector into typed values using argument specs.
type Parser interface {
	Parse(tokens []string, specs []*argspec.Spec) (*Result, error)
}

// ConvertError reports a converter rejecting a provided value. It is kept
// distinguishable from syntax and invalid-choice failures so callers can
// surface the converter's own message.
type ConvertError struct {
	Option string // option or parameter name
	Value  string
	Err    error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("argument %s: error converting value: %s: %v", e.Option, e.Value, e.Err)
}

func (e *ConvertError) Unwrap() error { return e.Err }
