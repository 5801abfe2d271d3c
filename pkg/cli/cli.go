// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli maps registered command functions onto a command-line argument
// grammar. Commands declare typed parameters plus per-parameter hints; the
// resolver turns them into argument specs at registration time, and Run
// parses a token vector against them and dispatches to the matched function.
package cli

import (
	"io"
	"os"
	"strings"

	"tailscale.com/util/mak"

	"github.com/yeetrun/cmdspec/pkg/argspec"
	"github.com/yeetrun/cmdspec/pkg/tokens"
)

// DefaultExtraKey is the destination key for collected unrecognized tokens.
const DefaultExtraKey = "_extra"

const (
	subcommandKey = "__subcommand__" // must not collide with an arg name
	helpArg       = "--help"
	versionArg    = "--version"
)

// Config configures a CLI. The zero value is usable.
type Config struct {
	Prog    string
	Help    string
	Version string
	// Converters is merged over the builtin table; caller entries win on
	// key collision.
	Converters argspec.Converters
	// Errors is the handler chain consulted for errors raised by command
	// functions (and parse failures).
	Errors []ErrorHandler
	// ExtraKey overrides DefaultExtraKey.
	ExtraKey string
	// SuppressDefaults disables filling unset arguments with their
	// declared defaults; required-argument validation is skipped too.
	// Used by tooling that wants partial parses.
	SuppressDefaults bool
	// Parser overrides the token parser collaborator.
	Parser tokens.Parser
}

// CLI is a command registry plus the machinery to parse and execute against
// it. Populate it via Command/Subcommand/Placeholder during a single-threaded
// setup phase; it is read-only afterwards.
type CLI struct {
	Prog     string
	Help     string
	Version  string
	ExtraKey string

	// Converters is the merged converter table used at registration time.
	Converters argspec.Converters

	// Commands and Subcommands are the two registry tiers. Use the
	// ordered accessors for deterministic iteration.
	Commands    map[string]*Command
	Subcommands map[string]map[string]*Command

	errors       []ErrorHandler
	fillDefaults bool
	parser       tokens.Parser

	commandOrder []string
	parentOrder  []string
	subOrder     map[string][]string

	stdout io.Writer
	exit   func(int)
}

// New creates an empty CLI registry.
func New(cfg Config) *CLI {
	extraKey := cfg.ExtraKey
	if extraKey == "" {
		extraKey = DefaultExtraKey
	}
	parser := cfg.Parser
	if parser == nil {
		parser = tokens.New()
	}
	return &CLI{
		Prog:         cfg.Prog,
		Help:         strings.TrimSpace(cfg.Help),
		Version:      cfg.Version,
		ExtraKey:     extraKey,
		Converters:   argspec.Merge(argspec.DefaultConverters(), cfg.Converters),
		errors:       cfg.Errors,
		fillDefaults: !cfg.SuppressDefaults,
		parser:       parser,
		stdout:       os.Stdout,
		exit:         os.Exit,
	}
}

// SetOutput redirects help and version output, e.g. for tests.
func (c *CLI) SetOutput(w io.Writer) { c.stdout = w }

// Command registers a top-level command.
func (c *CLI) Command(def Def) (*Command, error) {
	if _, ok := c.Commands[def.Name]; ok {
		return nil, &CommandExistsError{Name: def.Name}
	}
	cmd, err := c.buildCommand(def, "")
	if err != nil {
		return nil, err
	}
	mak.Set(&c.Commands, def.Name, cmd)
	c.commandOrder = append(c.commandOrder, def.Name)
	return cmd, nil
}

// Subcommand registers a command under a named parent. The parent does not
// need to exist yet; a placeholder is synthesized at run time if it never
// does.
func (c *CLI) Subcommand(parent string, def Def) (*Command, error) {
	if _, ok := c.Subcommands[parent][def.Name]; ok {
		return nil, &CommandExistsError{Name: def.Name}
	}
	cmd, err := c.buildCommand(def, parent)
	if err != nil {
		return nil, err
	}
	subs := c.Subcommands[parent]
	if subs == nil {
		c.parentOrder = append(c.parentOrder, parent)
	}
	mak.Set(&subs, def.Name, cmd)
	mak.Set(&c.Subcommands, parent, subs)
	mak.Set(&c.subOrder, parent, append(c.subOrder[parent], def.Name))
	return cmd, nil
}

// Placeholder registers a no-op parent command that exists only to host
// subcommands; invoking it directly shows the help for its subcommand set.
func (c *CLI) Placeholder(name, description string) (*Command, error) {
	if _, ok := c.Commands[name]; ok {
		return nil, &CommandExistsError{Name: name}
	}
	cmd := &Command{
		Name:          name,
		Description:   description,
		IsPlaceholder: true,
	}
	cmd.Func = func(Values) error {
		c.printCommandHelp(cmd, c.Subcommands[name])
		c.exit(0)
		return nil
	}
	mak.Set(&c.Commands, name, cmd)
	c.commandOrder = append(c.commandOrder, name)
	return cmd, nil
}

// AddCommand registers an already-built top-level command, bypassing type
// resolution. Used when rehydrating a registry from a snapshot.
func (c *CLI) AddCommand(cmd *Command) error {
	if _, ok := c.Commands[cmd.Name]; ok {
		return &CommandExistsError{Name: cmd.Name}
	}
	mak.Set(&c.Commands, cmd.Name, cmd)
	c.commandOrder = append(c.commandOrder, cmd.Name)
	return nil
}

// AddSubcommand registers an already-built command under a parent, bypassing
// type resolution.
func (c *CLI) AddSubcommand(parent string, cmd *Command) error {
	if _, ok := c.Subcommands[parent][cmd.Name]; ok {
		return &CommandExistsError{Name: cmd.Name}
	}
	cmd.Parent = parent
	subs := c.Subcommands[parent]
	if subs == nil {
		c.parentOrder = append(c.parentOrder, parent)
	}
	mak.Set(&subs, cmd.Name, cmd)
	mak.Set(&c.Subcommands, parent, subs)
	mak.Set(&c.subOrder, parent, append(c.subOrder[parent], cmd.Name))
	return nil
}

// Lookup finds a top-level command. A name that is neither registered nor
// backed by a subcommand group fails with CommandNotFoundError; a name backed
// only by a subcommand group returns (nil, nil).
func (c *CLI) Lookup(name string) (*Command, error) {
	if cmd, ok := c.Commands[name]; ok {
		return cmd, nil
	}
	if len(c.Subcommands[name]) == 0 {
		return nil, &CommandNotFoundError{Name: name, Available: c.CommandNames()}
	}
	return nil, nil
}

// CommandNames returns top-level command names in registration order.
func (c *CLI) CommandNames() []string {
	return append([]string(nil), c.commandOrder...)
}

// ParentNames returns the subcommand group names in registration order.
func (c *CLI) ParentNames() []string {
	return append([]string(nil), c.parentOrder...)
}

// SubcommandNames returns a parent's subcommand names in registration order.
func (c *CLI) SubcommandNames(parent string) []string {
	return append([]string(nil), c.subOrder[parent]...)
}
