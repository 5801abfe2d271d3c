// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package static serializes a command registry to a JSON snapshot and loads
// it back. A snapshot is type-erased: converters are recovered by canonical
// type name, so a loaded registry can show help and raise parse errors
// without linking the code that defines the original types.
package static

import (
	"github.com/yeetrun/cmdspec/pkg/argspec"
	"github.com/yeetrun/cmdspec/pkg/argtype"
	"github.com/yeetrun/cmdspec/pkg/cli"
)

// Data is the top-level snapshot document.
type Data struct {
	Prog        string            `json:"prog"`
	Help        string            `json:"help"`
	Version     string            `json:"version"`
	ExtraKey    string            `json:"extra_key"`
	Commands    *Map[*Command]    `json:"commands"`
	Subcommands *Map[*CommandSet] `json:"subcommands"`
}

// CommandSet is one parent's subcommand map.
type CommandSet = Map[*Command]

// Command is the serialized form of one registered command.
type Command struct {
	Name          string      `json:"name"`
	Args          []*Argument `json:"args"`
	Description   string      `json:"description"`
	AllowExtra    bool        `json:"allow_extra"`
	Parent        string      `json:"parent"`
	IsPlaceholder bool        `json:"is_placeholder"`
}

// Argument is the serialized form of one argument spec. Types are reduced
// to their canonical strings; the default keeps its JSON value, with the
// unset sentinel preserved verbatim.
type Argument struct {
	ID           string   `json:"id"`
	Option       string   `json:"option"`
	Short        string   `json:"short"`
	OrigHelp     string   `json:"orig_help"`
	Default      any      `json:"default"`
	Help         string   `json:"help"`
	Action       string   `json:"action"`
	Choices      []string `json:"choices"`
	HasConverter bool     `json:"has_converter"`
	Count        bool     `json:"count"`
	Type         string   `json:"type"`
	OrigType     string   `json:"orig_type"`
}

// FromCLI converts a live registry to its snapshot form.
func FromCLI(c *cli.CLI) *Data {
	d := &Data{
		Prog:        c.Prog,
		Help:        c.Help,
		Version:     c.Version,
		ExtraKey:    c.ExtraKey,
		Commands:    NewMap[*Command](),
		Subcommands: NewMap[*CommandSet](),
	}
	for _, name := range c.CommandNames() {
		d.Commands.Set(name, fromCommand(c.Commands[name]))
	}
	for _, parent := range c.ParentNames() {
		set := NewMap[*Command]()
		for _, name := range c.SubcommandNames(parent) {
			set.Set(name, fromCommand(c.Subcommands[parent][name]))
		}
		d.Subcommands.Set(parent, set)
	}
	return d
}

func fromCommand(cmd *cli.Command) *Command {
	out := &Command{
		Name:          cmd.Name,
		Description:   cmd.Description,
		AllowExtra:    cmd.AllowExtra,
		Parent:        cmd.Parent,
		IsPlaceholder: cmd.IsPlaceholder,
	}
	for _, spec := range cmd.Args {
		out.Args = append(out.Args, fromSpec(spec))
	}
	return out
}

func fromSpec(s *argspec.Spec) *Argument {
	var def any = argspec.UnsetRepr
	if s.HasDefault {
		def = s.Default
	}
	return &Argument{
		ID:           s.ID,
		Option:       s.Arg.Option,
		Short:        s.Arg.Short,
		OrigHelp:     s.Arg.Help,
		Default:      def,
		Help:         s.Help,
		Action:       string(s.Action),
		Choices:      s.Choices,
		HasConverter: s.HasConverter,
		Count:        s.Arg.Count,
		Type:         s.Type.String(),
		OrigType:     s.OrigType.String(),
	}
}

// CLI rebuilds a runnable registry from the snapshot. Command functions are
// no-op stubs; converters are recovered by type name from the supplied
// table, then the builtin table, then primitive parsing, then plain string
// passthrough.
func (d *Data) CLI(converters argspec.Converters) (*cli.CLI, error) {
	c := cli.New(cli.Config{
		Prog:       d.Prog,
		Help:       d.Help,
		Version:    d.Version,
		ExtraKey:   d.ExtraKey,
		Converters: converters,
	})
	for _, name := range d.Commands.Keys() {
		cmd, _ := d.Commands.Get(name)
		if err := c.AddCommand(toCommand(cmd, converters)); err != nil {
			return nil, err
		}
	}
	for _, parent := range d.Subcommands.Keys() {
		set, _ := d.Subcommands.Get(parent)
		for _, name := range set.Keys() {
			sub, _ := set.Get(name)
			if err := c.AddSubcommand(parent, toCommand(sub, converters)); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func toCommand(cmd *Command, converters argspec.Converters) *cli.Command {
	out := &cli.Command{
		Name:          cmd.Name,
		Func:          func(cli.Values) error { return nil },
		Description:   cmd.Description,
		AllowExtra:    cmd.AllowExtra,
		Parent:        cmd.Parent,
		IsPlaceholder: cmd.IsPlaceholder,
	}
	for _, arg := range cmd.Args {
		out.Args = append(out.Args, toSpec(arg, converters))
	}
	return out
}

func toSpec(a *Argument, converters argspec.Converters) *argspec.Spec {
	spec := &argspec.Spec{
		ID: a.ID,
		Arg: argspec.Arg{
			Option: a.Option,
			Short:  a.Short,
			Help:   a.OrigHelp,
			Count:  a.Count,
		},
		OrigType:     argtype.Parse(a.OrigType),
		Type:         argtype.Parse(a.Type),
		Help:         a.Help,
		Action:       argspec.Action(a.Action),
		Choices:      a.Choices,
		HasConverter: a.HasConverter,
	}
	if s, ok := a.Default.(string); !ok || s != argspec.UnsetRepr {
		spec.Default = a.Default
		spec.HasDefault = true
	}
	if spec.ConsumesValue() {
		spec.Converter = recoverConverter(spec, converters)
	}
	return spec
}

// recoverConverter picks the conversion function for a reloaded argument.
// Lookups are by canonical type name only; type identity does not survive
// serialization.
func recoverConverter(spec *argspec.Spec, converters argspec.Converters) argspec.Converter {
	if conv := converters.Get(spec.OrigType); conv != nil {
		return conv
	}
	if conv := argspec.DefaultConverters().Get(spec.OrigType); conv != nil {
		return conv
	}
	if conv := argspec.PrimitiveConverter(spec.Type); conv != nil {
		return conv
	}
	return func(value string) (any, error) { return value, nil }
}
