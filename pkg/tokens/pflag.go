// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tokens

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/yeetrun/cmdspec/pkg/argspec"
)

// PFlagParser is the default token parser, backed by spf13/pflag. Unknown
// options are split out of the vector before pflag sees them so they
// accumulate as extras instead of aborting the parse.
type PFlagParser struct{}

// New returns the default token parser.
func New() *PFlagParser { return &PFlagParser{} }

type parseState struct {
	values map[string]any
	setErr error // first conversion failure, kept verbatim
}

func (p *PFlagParser) Parse(toks []string, specs []*argspec.Spec) (*Result, error) {
	table, err := buildTable(specs)
	if err != nil {
		return nil, err
	}
	flagToks, posToks, extras := splitTokens(toks, table)

	st := &parseState{values: make(map[string]any)}
	fs := pflag.NewFlagSet("", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	type countFlag struct {
		id   string
		name string
		n    *int
	}
	var counts []countFlag
	for _, spec := range specs {
		if spec.Positional() {
			continue
		}
		name := strings.TrimPrefix(spec.Arg.Option, "--")
		short := strings.TrimPrefix(spec.Arg.Short, "-")
		switch spec.Action {
		case argspec.ActionCount:
			counts = append(counts, countFlag{id: spec.ID, name: name, n: fs.CountP(name, short, spec.Help)})
		case argspec.ActionStoreTrue:
			fs.VarP(&boolValue{spec: spec, st: st, store: true}, name, short, spec.Help)
			fs.Lookup(name).NoOptDefVal = "true"
		case argspec.ActionBoolOptional:
			fs.VarP(&boolValue{spec: spec, st: st, store: true}, name, short, spec.Help)
			fs.Lookup(name).NoOptDefVal = "true"
			negated := "no-" + name
			fs.Var(&boolValue{spec: spec, st: st, store: false}, negated, spec.Help)
			fs.Lookup(negated).NoOptDefVal = "true"
		case argspec.ActionAppend:
			fs.VarP(&appendValue{spec: spec, st: st}, name, short, spec.Help)
		default:
			fs.VarP(&scalarValue{spec: spec, st: st}, name, short, spec.Help)
		}
	}
	if err := fs.Parse(flagToks); err != nil {
		// pflag rewraps Set errors; prefer the original message.
		if st.setErr != nil {
			return nil, st.setErr
		}
		return nil, argspec.Parserf("%v", err)
	}
	for _, cf := range counts {
		if fs.Changed(cf.name) {
			st.values[cf.id] = *cf.n
		}
	}

	// Hand leftover non-option tokens to the positional specs in
	// declaration order; whatever remains joins the extras.
	for _, spec := range specs {
		if !spec.Positional() || !spec.ConsumesValue() {
			continue
		}
		if len(posToks) == 0 {
			break
		}
		raw := posToks[0]
		posToks = posToks[1:]
		val, err := convertToken(spec, raw)
		if err != nil {
			return nil, err
		}
		if spec.Action == argspec.ActionAppend {
			list, _ := st.values[spec.ID].([]any)
			st.values[spec.ID] = append(list, val)
		} else {
			st.values[spec.ID] = val
		}
	}
	extras = append(extras, posToks...)

	return &Result{Values: st.values, Extras: extras}, nil
}

type table struct {
	longs  map[string]*argspec.Spec // keyed without dashes, includes no- forms
	shorts map[string]*argspec.Spec // keyed by single letter
}

func buildTable(specs []*argspec.Spec) (*table, error) {
	t := &table{
		longs:  make(map[string]*argspec.Spec),
		shorts: make(map[string]*argspec.Spec),
	}
	add := func(m map[string]*argspec.Spec, key string, spec *argspec.Spec) error {
		if key == "" {
			return nil
		}
		if _, ok := m[key]; ok {
			return argspec.Parserf("conflicting option string: %s", key)
		}
		m[key] = spec
		return nil
	}
	for _, spec := range specs {
		if spec.Positional() {
			continue
		}
		if err := add(t.longs, strings.TrimPrefix(spec.Arg.Option, "--"), spec); err != nil {
			return nil, err
		}
		if neg := spec.NegatedOption(); neg != "" {
			if err := add(t.longs, strings.TrimPrefix(neg, "--"), spec); err != nil {
				return nil, err
			}
		}
		if err := add(t.shorts, strings.TrimPrefix(spec.Arg.Short, "-"), spec); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// splitTokens walks the vector once and separates tokens pflag can handle
// from positional candidates and unmatched tokens. Unknown options never
// consume a following value.
func splitTokens(toks []string, t *table) (flags, positionals, extras []string) {
	for i := 0; i < len(toks); i++ {
		arg := toks[i]
		if arg == "--" {
			positionals = append(positionals, toks[i+1:]...)
			break
		}
		if strings.HasPrefix(arg, "--") && len(arg) > 2 {
			name, _, hasValue := strings.Cut(arg[2:], "=")
			spec, ok := t.longs[name]
			if !ok {
				extras = append(extras, arg)
				continue
			}
			flags = append(flags, arg)
			if spec.ConsumesValue() && !hasValue && i+1 < len(toks) {
				i++
				flags = append(flags, toks[i])
			}
			continue
		}
		if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			body, _, hasValue := strings.Cut(arg[1:], "=")
			if body == "" {
				extras = append(extras, arg)
				continue
			}
			spec, ok := t.shorts[body[:1]]
			if !ok {
				extras = append(extras, arg)
				continue
			}
			if spec.ConsumesValue() {
				flags = append(flags, arg)
				if len(body) == 1 && !hasValue && i+1 < len(toks) {
					// Bare short option; the value is the next token.
					i++
					flags = append(flags, toks[i])
				}
				continue
			}
			// Grouped boolean/count shorthands like -vvv. Every letter
			// must be a known non-consuming short.
			known := true
			for j := 0; j < len(body); j++ {
				s, ok := t.shorts[body[j:j+1]]
				if !ok || s.ConsumesValue() {
					known = false
					break
				}
			}
			if !known {
				extras = append(extras, arg)
				continue
			}
			flags = append(flags, arg)
			continue
		}
		positionals = append(positionals, arg)
	}
	return flags, positionals, extras
}

func convertToken(spec *argspec.Spec, raw string) (any, error) {
	if len(spec.Choices) > 0 && !containsChoice(spec.Choices, raw) {
		quoted := make([]string, len(spec.Choices))
		for i, c := range spec.Choices {
			quoted[i] = "'" + c + "'"
		}
		return nil, argspec.Parserf("argument %s: invalid choice: '%s' (choose from %s)",
			spec.DisplayName(), raw, strings.Join(quoted, ", "))
	}
	switch {
	case spec.Converter != nil:
		val, err := spec.Converter(raw)
		if err != nil {
			return nil, &ConvertError{Option: spec.DisplayName(), Value: raw, Err: err}
		}
		return val, nil
	case spec.Type != nil:
		if conv := argspec.PrimitiveConverter(spec.Type); conv != nil {
			val, err := conv(raw)
			if err != nil {
				return nil, &ConvertError{Option: spec.DisplayName(), Value: raw, Err: err}
			}
			return val, nil
		}
	}
	return raw, nil
}

func containsChoice(choices []string, raw string) bool {
	for _, c := range choices {
		if c == raw {
			return true
		}
	}
	return false
}

// scalarValue adapts one single-value spec to the pflag.Value interface.
type scalarValue struct {
	spec *argspec.Spec
	st   *parseState
}

func (v *scalarValue) Set(raw string) error {
	val, err := convertToken(v.spec, raw)
	if err != nil {
		if v.st.setErr == nil {
			v.st.setErr = err
		}
		return err
	}
	v.st.values[v.spec.ID] = val
	return nil
}

func (v *scalarValue) String() string { return "" }
func (v *scalarValue) Type() string   { return v.spec.DisplayType().DisplayString() }

type appendValue struct {
	spec *argspec.Spec
	st   *parseState
}

func (v *appendValue) Set(raw string) error {
	val, err := convertToken(v.spec, raw)
	if err != nil {
		if v.st.setErr == nil {
			v.st.setErr = err
		}
		return err
	}
	list, _ := v.st.values[v.spec.ID].([]any)
	v.st.values[v.spec.ID] = append(list, val)
	return nil
}

func (v *appendValue) String() string { return "" }
func (v *appendValue) Type() string   { return v.spec.DisplayType().DisplayString() }

// boolValue handles plain store-true flags and both halves of a negatable
// --flag/--no-flag pair; store is the value written when the flag fires.
type boolValue struct {
	spec  *argspec.Spec
	st    *parseState
	store bool
}

func (v *boolValue) Set(raw string) error {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		err = argspec.Parserf("argument %s: invalid bool value: '%s'", v.spec.DisplayName(), raw)
		if v.st.setErr == nil {
			v.st.setErr = err
		}
		return err
	}
	if !v.store {
		b = !b
	}
	v.st.values[v.spec.ID] = b
	return nil
}

func (v *boolValue) String() string { return "" }
func (v *boolValue) Type() string   { return "bool" }
