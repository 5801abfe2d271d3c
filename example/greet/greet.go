// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command greet is a small demo CLI showing command registration, typed
// arguments, subcommands and static snapshot export.
package main

import (
	"fmt"
	"os"
	"strings"

	"tailscale.com/util/must"

	"github.com/yeetrun/cmdspec/pkg/argtype"
	"github.com/yeetrun/cmdspec/pkg/cli"
	"github.com/yeetrun/cmdspec/pkg/document"
	"github.com/yeetrun/cmdspec/pkg/static"
)

func main() {
	c := cli.New(cli.Config{
		Prog:    "greet",
		Help:    "Greet people from the command line.",
		Version: "1.0.0",
	})

	must.Get(c.Command(cli.Def{
		Name:        "hello",
		Description: "Print a greeting.",
		Params: []cli.Param{
			{Name: "name", Type: argtype.String},
			{Name: "shout", Type: argtype.Bool, Default: false, HasDefault: true},
			{Name: "times", Type: argtype.Int, Default: 1, HasDefault: true},
		},
		Hints: map[string]cli.Arg{
			"name":  {Help: "who to greet"},
			"shout": {Option: "--shout", Short: "-s", Help: "greet loudly"},
			"times": {Option: "--times", Short: "-t", Help: "how many greetings"},
		},
		Func: func(v cli.Values) error {
			msg := "Hello, " + v.String("name") + "!"
			if v.Bool("shout") {
				msg = strings.ToUpper(msg)
			}
			for i := 0; i < v.Int("times"); i++ {
				fmt.Println(msg)
			}
			return nil
		},
	}))

	must.Get(c.Subcommand("export", cli.Def{
		Name:        "snapshot",
		Description: "Write the CLI definition to a JSON snapshot.",
		Params: []cli.Param{
			{Name: "out", Type: argtype.Path},
		},
		Hints: map[string]cli.Arg{
			"out": {Option: "--out", Short: "-o", Help: "output file, .zst compresses"},
		},
		Func: func(v cli.Values) error {
			return static.FromCLI(c).Save(v.Path("out"))
		},
	}))

	must.Get(c.Subcommand("export", cli.Def{
		Name:        "docs",
		Description: "Write Markdown documentation to stdout.",
		Func: func(cli.Values) error {
			fmt.Println(document.Document(c, document.Options{Title: "Greet"}))
			return nil
		},
	}))

	if err := c.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "greet:", err)
		os.Exit(1)
	}
}
