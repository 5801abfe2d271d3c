// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"strings"

	"github.com/yeetrun/cmdspec/pkg/argspec"
	"github.com/yeetrun/cmdspec/pkg/argtype"
)

// Func is a command body. It receives the validated, converted values and
// performs its own typed unpacking via the Values getters.
type Func func(v Values) error

// Param declares one parameter of a command function: name, semantic type
// and optional default. This is the explicit stand-in for signature
// introspection; parameters are matched to hints by name.
type Param struct {
	Name       string
	Type       *argtype.Type // nil defaults to string
	Default    any
	HasDefault bool
}

// Arg is the per-parameter hint supplied at registration time.
type Arg = argspec.Arg

// Def describes a command to register: the declared parameters in order,
// optional hints keyed by parameter name, and the function to run.
type Def struct {
	Name        string
	Description string
	Params      []Param
	Hints       map[string]Arg
	Func        Func
	// AllowExtra collects unrecognized trailing tokens under the CLI's
	// extra key instead of failing on them.
	AllowExtra bool
}

// Command is a registered command with its resolved argument specs. Commands
// are built once at registration time and never mutated afterwards.
type Command struct {
	Name          string
	Func          Func
	Args          []*argspec.Spec
	Description   string
	AllowExtra    bool
	Parent        string
	IsPlaceholder bool
}

// DisplayName qualifies a subcommand with its parent for display.
func (cmd *Command) DisplayName() string {
	if cmd.Parent != "" {
		return cmd.Parent + " " + cmd.Name
	}
	return cmd.Name
}

// Spec returns the argument spec with the given id, or nil.
func (cmd *Command) Spec(id string) *argspec.Spec {
	for _, spec := range cmd.Args {
		if spec.ID == id {
			return spec
		}
	}
	return nil
}

// buildCommand resolves every declared parameter into a spec. All failures
// here are programming mistakes in CLI setup and abort registration.
func (c *CLI) buildCommand(def Def, parent string) (*Command, error) {
	byName := make(map[string]bool, len(def.Params))
	for _, p := range def.Params {
		byName[p.Name] = true
	}
	for hintName := range def.Hints {
		if !byName[hintName] {
			path := joinStrings(" ", parent, def.Name)
			return nil, argspec.Parserf(
				"argument not found in function for '%s': %s", path, hintName)
		}
	}
	args := make([]*argspec.Spec, 0, len(def.Params))
	for _, p := range def.Params {
		declared := p.Type
		switch {
		case p.Name == c.ExtraKey:
			// The extra-token parameter has a known shape.
			declared = argtype.Slice(argtype.String)
		case declared == nil:
			declared = argtype.String
		}
		hint := def.Hints[p.Name]
		spec, err := argspec.Resolve(p.Name, hint, declared, p.Default, p.HasDefault, c.Converters)
		if err != nil {
			return nil, err
		}
		spec.Help = joinStrings(" ", hint.Help, "("+spec.DisplayType().DisplayString()+")")
		args = append(args, spec)
	}
	return &Command{
		Name:        def.Name,
		Func:        def.Func,
		Args:        args,
		Description: def.Description,
		AllowExtra:  def.AllowExtra,
		Parent:      parent,
	}, nil
}

func joinStrings(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
