// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/yeetrun/cmdspec/pkg/argspec"
)

// FormatInfo renders the command overview shown for a bare or --help
// invocation: the program help followed by one row per command with a
// truncated description, plus the subcommand listing for each group.
func (c *CLI) FormatInfo() string {
	var rows [][2]string
	for _, name := range c.commandOrder {
		cmd := c.Commands[name]
		rows = append(rows, [2]string{"  " + name, formatArgHelp(cmd.Description)})
		if subs := c.subOrder[name]; len(subs) > 0 {
			rows = append(rows, [2]string{"", "Subcommands: " + strings.Join(subs, ", ")})
		}
	}
	for _, name := range c.parentOrder {
		if _, ok := c.Commands[name]; ok {
			continue
		}
		rows = append(rows, [2]string{"  " + name, "Subcommands: " + strings.Join(c.subOrder[name], ", ")})
	}
	return joinStrings("\n", c.Help, "\nAvailable commands:", formatTable(rows))
}

// FormatCommandHelp renders the per-command help text: a usage line, the
// description, the argument table and, for group parents, the subcommand
// listing.
func (c *CLI) FormatCommandHelp(cmd *Command, subs map[string]*Command) string {
	var usage []string
	if c.Prog != "" {
		usage = append(usage, c.Prog)
	}
	usage = append(usage, cmd.DisplayName())
	var rows [][2]string
	for _, spec := range cmd.Args {
		if spec.ID == c.ExtraKey {
			continue
		}
		name := optionLabel(spec)
		if spec.Positional() {
			usage = append(usage, spec.ID)
		} else {
			usage = append(usage, "["+spec.Arg.Option+"]")
		}
		rows = append(rows, [2]string{"  " + name, spec.Help})
	}
	if len(subs) > 0 {
		usage = append(usage, "<subcommand>")
	}
	parts := []string{"usage: " + strings.Join(usage, " "), cmd.Description}
	if len(rows) > 0 {
		parts = append(parts, "\nArguments:"+formatTable(rows))
	}
	if len(subs) > 0 {
		var names []string
		if cmd.Parent == "" {
			names = c.SubcommandNames(cmd.Name)
		}
		if len(names) == 0 {
			for name := range subs {
				names = append(names, name)
			}
		}
		parts = append(parts, "Subcommands: "+strings.Join(names, ", "))
	}
	return joinStrings("\n", parts...)
}

func (c *CLI) printCommandHelp(cmd *Command, subs map[string]*Command) {
	fmt.Fprintln(c.stdout, c.FormatCommandHelp(cmd, subs))
}

// optionLabel names an argument the way it is typed on the command line:
// "--opt, -o", "--flag/--no-flag" for negatable booleans, or the bare id
// for positionals.
func optionLabel(spec *argspec.Spec) string {
	if spec.Positional() {
		return spec.ID
	}
	if neg := spec.NegatedOption(); neg != "" {
		return spec.Arg.Option + "/" + neg
	}
	if spec.Arg.Short != "" {
		return spec.Arg.Option + ", " + spec.Arg.Short
	}
	return spec.Arg.Option
}

// formatTable aligns two-column rows with a three space gutter. Column
// widths track the longest cell, capped so one long description cannot
// push the whole table off screen.
func formatTable(rows [][2]string) string {
	colCap := tableColCap()
	var widths [2]int
	for _, row := range rows {
		for i, col := range row {
			if n := len([]rune(col)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i := range widths {
		if widths[i] > colCap {
			widths[i] = colCap
		}
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%-*s   %-*s\n", widths[0], row[0], widths[1], row[1]))
	}
	return b.String()
}

// tableColCap bounds a help table column at 50 characters, or half the
// terminal width when that is narrower.
func tableColCap() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w/2 < 50 {
		return w / 2
	}
	return 50
}

// formatArgHelp truncates description text for the command overview. Text
// over 70 characters is cut at the last sentence boundary inside the limit
// when one exists, otherwise hard-cut with an ellipsis.
func formatArgHelp(text string) string {
	const maxWidth = 70
	d := strings.TrimSpace(text)
	if r := []rune(d); len(r) > maxWidth {
		d = string(r[:maxWidth])
	}
	end := "..."
	if strings.Contains(d, ".") || len([]rune(text)) <= maxWidth {
		end = "."
	}
	if i := strings.LastIndex(d, "."); i >= 0 {
		d = d[:i]
	}
	return d + end
}
