// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/yeetrun/cmdspec/pkg/argspec"
	"github.com/yeetrun/cmdspec/pkg/tokens"
)

// errExit marks a code path that already printed output and requested
// process exit; with an injected exit func (tests) it unwinds the run.
var errExit = errors.New("cli: exited")

// Parse resolves a token vector against a command and its optional
// subcommand set. Parsing is two-level: if a subcommand selector token is
// found, the remaining tokens are parsed against that subcommand's grammar
// and the result carries a marker naming which subcommand ran. With
// allowPartial, missing required arguments do not fail (used for partial
// parses by tooling and tests).
func (c *CLI) Parse(toks []string, cmd *Command, subs map[string]*Command, allowPartial bool) (Values, error) {
	specs := c.grammarSpecs(cmd)

	selIdx := -1
	if len(subs) > 0 {
		selIdx = findSelector(toks, specs)
	}
	if helpIdx := indexOf(toks, helpArg); helpIdx >= 0 && (selIdx < 0 || helpIdx < selIdx) {
		c.printCommandHelp(cmd, subs)
		c.exit(0)
		return nil, errExit
	}
	if selIdx >= 0 {
		name := toks[selIdx]
		sub, ok := subs[name]
		if !ok {
			return nil, argspec.Parserf("invalid subcommand: '%s'", name)
		}
		rest := make([]string, 0, len(toks)-1)
		rest = append(rest, toks[:selIdx]...)
		rest = append(rest, toks[selIdx+1:]...)
		values, err := c.Parse(rest, sub, nil, allowPartial)
		if err != nil {
			return nil, err
		}
		values[subcommandKey] = name
		return values, nil
	}

	res, err := c.parser.Parse(toks, specs)
	if err != nil {
		var ce *tokens.ConvertError
		if errors.As(err, &ce) {
			return nil, &ParserError{Msg: ce.Error(), Err: ce}
		}
		return nil, err
	}
	return c.validate(cmd, specs, Values(res.Values), res.Extras, allowPartial)
}

// grammarSpecs returns the specs handed to the token parser: everything but
// the extra-token parameter, which is filled by validation instead.
func (c *CLI) grammarSpecs(cmd *Command) []*argspec.Spec {
	specs := make([]*argspec.Spec, 0, len(cmd.Args))
	for _, spec := range cmd.Args {
		if spec.ID == c.ExtraKey {
			continue
		}
		specs = append(specs, spec)
	}
	return specs
}

// validate applies defaults, reconciles leftover tokens against the
// command's extra policy, and checks required-argument completeness.
func (c *CLI) validate(cmd *Command, specs []*argspec.Spec, values Values, extras []string, allowPartial bool) (Values, error) {
	if c.fillDefaults {
		for _, spec := range specs {
			if _, ok := values[spec.ID]; !ok && spec.HasDefault {
				values[spec.ID] = spec.Default
			}
		}
	}
	if cmd.AllowExtra {
		values[c.ExtraKey] = extras
	} else if len(extras) > 0 {
		return nil, argspec.Parserf("unrecognized arguments: %s", strings.Join(extras, " "))
	}
	var required []string
	for _, spec := range specs {
		if _, ok := values[spec.ID]; !ok {
			required = append(required, spec.DisplayName())
		}
	}
	if len(required) > 0 && c.fillDefaults && !allowPartial {
		return nil, argspec.Parserf("the following arguments are required: %s",
			strings.Join(required, ", "))
	}
	return values, nil
}

// findSelector locates the subcommand selector: the first non-option token
// left over once the command's own positional slots are spoken for.
func findSelector(toks []string, specs []*argspec.Spec) int {
	longs := make(map[string]*argspec.Spec)
	shorts := make(map[string]*argspec.Spec)
	positionals := 0
	for _, spec := range specs {
		if spec.Positional() {
			if spec.ConsumesValue() {
				positionals++
			}
			continue
		}
		longs[strings.TrimPrefix(spec.Arg.Option, "--")] = spec
		if neg := spec.NegatedOption(); neg != "" {
			longs[strings.TrimPrefix(neg, "--")] = spec
		}
		if spec.Arg.Short != "" {
			shorts[strings.TrimPrefix(spec.Arg.Short, "-")] = spec
		}
	}
	seen := 0
	for i := 0; i < len(toks); i++ {
		arg := toks[i]
		if arg == "--" {
			continue
		}
		if strings.HasPrefix(arg, "--") && len(arg) > 2 {
			name, _, hasValue := strings.Cut(arg[2:], "=")
			if spec, ok := longs[name]; ok && spec.ConsumesValue() && !hasValue {
				i++
			}
			continue
		}
		if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			body, _, hasValue := strings.Cut(arg[1:], "=")
			if body == "" {
				continue
			}
			if spec, ok := shorts[body[:1]]; ok && spec.ConsumesValue() && len(body) == 1 && !hasValue {
				i++
			}
			continue
		}
		seen++
		if seen > positionals {
			return i
		}
	}
	return -1
}

func indexOf(toks []string, want string) int {
	for i, t := range toks {
		if t == want {
			return i
		}
	}
	return -1
}

// Run executes one CLI invocation against the given argument vector
// (excluding the program name). Help and version requests print and exit 0;
// parse failures and command errors run through the handler chain, and
// anything unhandled is returned to the caller.
func (c *CLI) Run(args []string) error {
	if len(args) == 0 || args[0] == helpArg {
		fmt.Fprintln(c.stdout, c.FormatInfo())
		c.exit(0)
		return nil
	}
	// A CLI with a single command doesn't require naming it. A token that
	// names a registered command or subcommand group is never treated as
	// an argument of the single command.
	if len(c.Commands) == 1 && len(c.Subcommands) <= 1 {
		_, isCmd := c.Commands[args[0]]
		_, isGroup := c.Subcommands[args[0]]
		if !isCmd && !isGroup {
			args = append([]string{c.commandOrder[0]}, args...)
		}
	}
	name, rest := args[0], args[1:]
	if c.Version != "" && name == versionArg {
		fmt.Fprintln(c.stdout, c.Version)
		c.exit(0)
		return nil
	}
	subs := c.Subcommands[name]
	cmd, ok := c.Commands[name]
	if !ok {
		if len(subs) == 0 {
			return c.handleError(&CommandNotFoundError{Name: name, Available: c.CommandNames()})
		}
		// Parent registered only through its subcommands; synthesize it.
		cmd, _ = c.Placeholder(name, "")
	}
	values, err := c.Parse(rest, cmd, subs, false)
	if err != nil {
		if errors.Is(err, errExit) {
			return nil
		}
		return c.handleError(err)
	}
	fn := cmd.Func
	if sub, ok := values[subcommandKey].(string); ok {
		delete(values, subcommandKey)
		fn = subs[sub].Func
	}
	return c.handleError(fn(values))
}

// Main is the process-boundary wrapper: it supplies the real argument
// vector, prints unhandled errors and exits non-zero on failure.
func (c *CLI) Main() {
	if err := c.Run(os.Args[1:]); err != nil {
		printError(os.Stderr, err)
		c.exit(1)
	}
}

func printError(w io.Writer, err error) {
	prefix := color.New(color.FgRed, color.Bold).Sprint("error:")
	fmt.Fprintf(w, "%s %v\n", prefix, err)
}

// handleError runs err through the registered handler chain. The first
// handler that recognizes the error decides: a non-negative code exits the
// process, a negative one swallows the error. Unrecognized errors propagate.
func (c *CLI) handleError(err error) error {
	if err == nil {
		return nil
	}
	for _, h := range c.errors {
		code, handled := h(err)
		if !handled {
			continue
		}
		if code >= 0 {
			c.exit(code)
		}
		return nil
	}
	return err
}
