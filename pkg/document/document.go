// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package document renders Markdown documentation for a command registry.
package document

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/yeetrun/cmdspec/pkg/argspec"
	"github.com/yeetrun/cmdspec/pkg/argtype"
	"github.com/yeetrun/cmdspec/pkg/cli"
)

// DefaultComment is the marker placed at the top of generated files.
const DefaultComment = "This file is auto-generated"

var whitespaceRe = regexp.MustCompile(`[ \t\r\n]+`)

// Options controls the rendered document.
type Options struct {
	Title       string
	Description string
	Comment     string // replaces DefaultComment when set
	NoComment   bool   // suppress the auto-generated marker entirely
	PathRoot    string // render path-typed defaults relative to this root
}

// Document renders the full registry as Markdown: one heading per command
// and subcommand nesting level, each followed by its argument table.
func Document(c *cli.CLI, opts Options) string {
	var blocks []string
	startHeading := 1
	if opts.Title != "" {
		startHeading = 2
	}
	if !opts.NoComment {
		comment := opts.Comment
		if comment == "" {
			comment = DefaultComment
		}
		blocks = append(blocks, "<!-- "+comment+" -->")
	}
	if opts.Title != "" {
		blocks = append(blocks, "# "+opts.Title)
	}
	if opts.Description != "" {
		blocks = append(blocks, collapse(opts.Description))
	}
	prefix, cliTitle := "", "CLI"
	if c.Prog != "" {
		prefix = c.Prog + " "
		cliTitle = "`" + c.Prog + "`"
	}
	blocks = append(blocks, heading(startHeading)+" "+cliTitle)
	if c.Help != "" {
		blocks = append(blocks, c.Help)
	}
	for _, name := range c.CommandNames() {
		blocks = append(blocks, command(c.Commands[name], startHeading+1, prefix, opts.PathRoot)...)
		for _, subName := range c.SubcommandNames(name) {
			blocks = append(blocks, command(c.Subcommands[name][subName], startHeading+2, prefix, opts.PathRoot)...)
		}
	}
	for _, parent := range c.ParentNames() {
		if _, ok := c.Commands[parent]; ok {
			continue
		}
		blocks = append(blocks, heading(startHeading+1)+" `"+prefix+parent+"`")
		for _, subName := range c.SubcommandNames(parent) {
			blocks = append(blocks, command(c.Subcommands[parent][subName], startHeading+2, prefix, opts.PathRoot)...)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func command(cmd *cli.Command, level int, prefix, pathRoot string) []string {
	blocks := []string{heading(level) + " `" + prefix + cmd.DisplayName() + "`"}
	if cmd.Description != "" {
		blocks = append(blocks, collapse(cmd.Description))
	}
	if len(cmd.Args) == 0 {
		return blocks
	}
	var rows []string
	for _, spec := range cmd.Args {
		name := "`" + spec.DisplayName() + "`"
		if neg := spec.NegatedOption(); neg != "" {
			name += "/`" + neg + "`"
		}
		if spec.Arg.Short != "" {
			name += ", `" + spec.Arg.Short + "`"
		}
		typeCell := ""
		if t := spec.DisplayType(); t != nil {
			typeCell = "`" + t.DisplayString() + "`"
		}
		rows = append(rows, "| "+strings.Join([]string{
			name, typeCell, spec.Arg.Help, defaultCell(spec, pathRoot),
		}, " | ")+" |")
	}
	table := "| Argument | Type | Description | Default |\n" +
		"| --- | --- | --- | --- |\n" +
		strings.Join(rows, "\n")
	return append(blocks, table)
}

// defaultCell renders an argument's default. String defaults are quoted so
// empty strings stay visible; path-typed defaults render relative to the
// documentation root when one is given.
func defaultCell(spec *argspec.Spec, pathRoot string) string {
	if !spec.HasDefault {
		return ""
	}
	switch v := spec.Default.(type) {
	case nil:
		return "`None`"
	case string:
		if isPathType(spec.DisplayType()) {
			if pathRoot != "" {
				if rel, err := filepath.Rel(pathRoot, v); err == nil {
					return "`" + rel + "`"
				}
			}
			return "`" + v + "`"
		}
		return "`" + strconv.Quote(v) + "`"
	default:
		return fmt.Sprintf("`%v`", v)
	}
}

func isPathType(t *argtype.Type) bool {
	for ; t != nil; t = t.Super {
		if t.Kind == argtype.KindPath {
			return true
		}
	}
	return false
}

func heading(level int) string {
	return strings.Repeat("#", level)
}

func collapse(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
