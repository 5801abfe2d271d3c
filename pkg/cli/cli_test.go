// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/yeetrun/cmdspec/pkg/argtype"
)

// testCLI redirects output and stubs the exit func so help and version
// short-circuits unwind instead of terminating the test process.
func testCLI(t *testing.T, cfg Config) (*CLI, *bytes.Buffer, *int) {
	t.Helper()
	c := New(cfg)
	var out bytes.Buffer
	c.SetOutput(&out)
	exitCode := -1
	c.exit = func(code int) { exitCode = code }
	return c, &out, &exitCode
}

func greetCLI(t *testing.T, got *Values) (*CLI, *bytes.Buffer, *int) {
	t.Helper()
	c, out, exitCode := testCLI(t, Config{Prog: "greet", Help: "Greet people."})
	if _, err := c.Command(Def{
		Name:        "greet",
		Description: "Say hello.",
		Params: []Param{
			{Name: "name", Type: argtype.String},
			{Name: "shout", Type: argtype.Bool, Default: false, HasDefault: true},
		},
		Hints: map[string]Arg{
			"shout": {Option: "--shout"},
		},
		Func: func(v Values) error {
			*got = v
			return nil
		},
	}); err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	return c, out, exitCode
}

func TestRunGreet(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Values
	}{
		{
			name: "positional and flag",
			args: []string{"greet", "Ada", "--shout"},
			want: Values{"name": "Ada", "shout": true},
		},
		{
			name: "default applies",
			args: []string{"greet", "Ada"},
			want: Values{"name": "Ada", "shout": false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Values
			c, _, _ := greetCLI(t, &got)
			if err := c.Run(tt.args); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("values = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunMissingRequired(t *testing.T) {
	var got Values
	c, _, _ := greetCLI(t, &got)
	err := c.Run([]string{"greet", "--shout"})
	if err == nil {
		t.Fatal("Run succeeded without required positional")
	}
	want := "the following arguments are required: name"
	if err.Error() != want {
		t.Errorf("err = %q, want %q", err.Error(), want)
	}
}

func TestRunSingleCommandNameOmitted(t *testing.T) {
	var got Values
	c, _, _ := greetCLI(t, &got)
	if err := c.Run([]string{"Ada", "--shout"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := Values{"name": "Ada", "shout": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("values = %v, want %v", got, want)
	}
}

func TestRunAppendOrder(t *testing.T) {
	c, _, _ := testCLI(t, Config{})
	var got []string
	if _, err := c.Command(Def{
		Name: "build",
		Params: []Param{
			{Name: "tag", Type: argtype.Slice(argtype.String)},
		},
		Hints: map[string]Arg{
			"tag": {Option: "--tag"},
		},
		Func: func(v Values) error {
			got = v.Strings("tag")
			return nil
		},
	}); err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if err := c.Run([]string{"build", "--tag", "a", "--tag", "b"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("tag = %v, want %v", got, want)
	}
}

func TestSubcommandDispatch(t *testing.T) {
	c, _, _ := testCLI(t, Config{})
	var parentRan, childRan bool
	var childX int
	if _, err := c.Command(Def{
		Name: "parent",
		Func: func(Values) error {
			parentRan = true
			return nil
		},
	}); err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if _, err := c.Subcommand("parent", Def{
		Name: "child",
		Params: []Param{
			{Name: "x", Type: argtype.Int},
		},
		Hints: map[string]Arg{
			"x": {Option: "--x"},
		},
		Func: func(v Values) error {
			childRan = true
			childX = v.Int("x")
			return nil
		},
	}); err != nil {
		t.Fatalf("Subcommand failed: %v", err)
	}

	if err := c.Run([]string{"parent", "child", "--x", "1"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if parentRan {
		t.Error("parent function ran; want child only")
	}
	if !childRan || childX != 1 {
		t.Errorf("childRan = %v, x = %d; want child with x=1", childRan, childX)
	}
}

func TestSubcommandNotTopLevel(t *testing.T) {
	c, _, _ := testCLI(t, Config{})
	must := func(_ *Command, err error) {
		if err != nil {
			t.Fatalf("registration failed: %v", err)
		}
	}
	// A second command keeps the single-command shorthand off.
	must(c.Command(Def{Name: "parent", Func: func(Values) error { return nil }}))
	must(c.Command(Def{Name: "other", Func: func(Values) error { return nil }}))
	must(c.Subcommand("parent", Def{Name: "child", Func: func(Values) error { return nil }}))

	err := c.Run([]string{"child", "--x", "1"})
	var notFound *CommandNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want CommandNotFoundError", err)
	}
	if notFound.Name != "child" {
		t.Errorf("Name = %q, want child", notFound.Name)
	}
}

func TestSingleCommandShorthandSkipsGroupNames(t *testing.T) {
	c, _, _ := testCLI(t, Config{})
	var gotName string
	var subRan bool
	if _, err := c.Command(Def{
		Name:   "other",
		Params: []Param{{Name: "name"}},
		Func: func(v Values) error {
			gotName = v.String("name")
			return nil
		},
	}); err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if _, err := c.Subcommand("tools", Def{
		Name: "fmt",
		Func: func(Values) error {
			subRan = true
			return nil
		},
	}); err != nil {
		t.Fatalf("Subcommand failed: %v", err)
	}

	// A leading group name dispatches to the group, not the single command.
	if err := c.Run([]string{"tools", "fmt"}); err != nil {
		t.Fatalf("Run tools fmt failed: %v", err)
	}
	if !subRan {
		t.Error("group subcommand did not run")
	}

	// Any other leading token still gets the single-command shorthand.
	if err := c.Run([]string{"Ada"}); err != nil {
		t.Fatalf("Run Ada failed: %v", err)
	}
	if gotName != "Ada" {
		t.Errorf("name = %q, want %q", gotName, "Ada")
	}
}

func TestSubcommandWithoutParentCommand(t *testing.T) {
	c, _, exitCode := testCLI(t, Config{})
	var ran bool
	if _, err := c.Command(Def{Name: "other", Func: func(Values) error { return nil }}); err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if _, err := c.Subcommand("tools", Def{
		Name: "fmt",
		Func: func(Values) error {
			ran = true
			return nil
		},
	}); err != nil {
		t.Fatalf("Subcommand failed: %v", err)
	}

	// Dispatch goes through a synthesized placeholder parent.
	if err := c.Run([]string{"tools", "fmt"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !ran {
		t.Error("subcommand did not run")
	}
	if *exitCode != -1 {
		t.Errorf("exit code = %d, want no exit", *exitCode)
	}
}

func TestInvalidSubcommand(t *testing.T) {
	c, _, _ := testCLI(t, Config{})
	must := func(_ *Command, err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(c.Command(Def{Name: "parent", Func: func(Values) error { return nil }}))
	must(c.Command(Def{Name: "other", Func: func(Values) error { return nil }}))
	must(c.Subcommand("parent", Def{Name: "child", Func: func(Values) error { return nil }}))

	err := c.Run([]string{"parent", "bogus"})
	if err == nil || !strings.Contains(err.Error(), "invalid subcommand: 'bogus'") {
		t.Errorf("err = %v, want invalid subcommand", err)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	c, _, _ := testCLI(t, Config{})
	def := Def{Name: "x", Func: func(Values) error { return nil }}
	if _, err := c.Command(def); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	_, err := c.Command(def)
	var exists *CommandExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("err = %v, want CommandExistsError", err)
	}
	if _, err := c.Subcommand("p", def); err != nil {
		t.Fatalf("subcommand registration failed: %v", err)
	}
	if _, err := c.Subcommand("p", def); !errors.As(err, &exists) {
		t.Errorf("duplicate subcommand err = %v, want CommandExistsError", err)
	}
}

func TestUnknownHintFails(t *testing.T) {
	c, _, _ := testCLI(t, Config{})
	_, err := c.Command(Def{
		Name:   "x",
		Params: []Param{{Name: "a"}},
		Hints:  map[string]Arg{"typo": {}},
		Func:   func(Values) error { return nil },
	})
	if err == nil || !strings.Contains(err.Error(), "argument not found in function for 'x': typo") {
		t.Errorf("err = %v, want unknown hint error", err)
	}
}

func TestUnrecognizedArguments(t *testing.T) {
	var got Values
	c, _, _ := greetCLI(t, &got)
	err := c.Run([]string{"greet", "Ada", "--bogus"})
	if err == nil || !strings.Contains(err.Error(), "unrecognized arguments: --bogus") {
		t.Errorf("err = %v, want unrecognized arguments", err)
	}
}

func TestAllowExtra(t *testing.T) {
	c, _, _ := testCLI(t, Config{})
	var extra []string
	if _, err := c.Command(Def{
		Name:       "wrap",
		AllowExtra: true,
		Params: []Param{
			{Name: "name", Type: argtype.String},
		},
		Func: func(v Values) error {
			extra = v.Strings(DefaultExtraKey)
			return nil
		},
	}); err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if err := c.Run([]string{"wrap", "Ada", "--passthrough", "x"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if want := []string{"--passthrough", "x"}; !reflect.DeepEqual(extra, want) {
		t.Errorf("extra = %v, want %v", extra, want)
	}
}

func TestHelpOverview(t *testing.T) {
	c, out, exitCode := testCLI(t, Config{Help: "My tool."})
	must := func(_ *Command, err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(c.Command(Def{Name: "alpha", Description: "First command.", Func: func(Values) error { return nil }}))
	must(c.Command(Def{Name: "beta", Description: "Second command.", Func: func(Values) error { return nil }}))
	must(c.Subcommand("beta", Def{Name: "sub", Func: func(Values) error { return nil }}))
	must(c.Subcommand("tools", Def{Name: "fmt", Func: func(Values) error { return nil }}))

	if err := c.Run(nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if *exitCode != 0 {
		t.Errorf("exit code = %d, want 0", *exitCode)
	}
	text := out.String()
	for _, want := range []string{
		"My tool.",
		"Available commands:",
		"  alpha",
		"First command.",
		"Subcommands: sub",
		"  tools",
		"Subcommands: fmt",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("overview missing %q:\n%s", want, text)
		}
	}
}

func TestHelpFlagOnCommand(t *testing.T) {
	var got Values
	c, out, exitCode := greetCLI(t, &got)

	if err := c.Run([]string{"greet", "--help"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if *exitCode != 0 {
		t.Errorf("exit code = %d, want 0", *exitCode)
	}
	if got != nil {
		t.Error("command ran despite --help")
	}
	text := out.String()
	if !strings.Contains(text, "usage: greet greet") {
		t.Errorf("help missing usage line:\n%s", text)
	}
	if !strings.Contains(text, "--shout") {
		t.Errorf("help missing flag:\n%s", text)
	}
}

func TestVersion(t *testing.T) {
	c, out, exitCode := testCLI(t, Config{Version: "1.2.3"})
	must := func(_ *Command, err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(c.Command(Def{Name: "a", Func: func(Values) error { return nil }}))
	must(c.Command(Def{Name: "b", Func: func(Values) error { return nil }}))

	if err := c.Run([]string{"--version"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if *exitCode != 0 {
		t.Errorf("exit code = %d, want 0", *exitCode)
	}
	if got := strings.TrimSpace(out.String()); got != "1.2.3" {
		t.Errorf("output = %q, want version string", got)
	}
}

func TestCommandNotFound(t *testing.T) {
	c, _, _ := testCLI(t, Config{})
	must := func(_ *Command, err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(c.Command(Def{Name: "a", Func: func(Values) error { return nil }}))
	must(c.Command(Def{Name: "b", Func: func(Values) error { return nil }}))

	err := c.Run([]string{"zzz"})
	var notFound *CommandNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want CommandNotFoundError", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(notFound.Available, want) {
		t.Errorf("Available = %v, want %v", notFound.Available, want)
	}
}

type billingError struct{ code int }

func (e *billingError) Error() string { return fmt.Sprintf("billing failure %d", e.code) }

func TestErrorHandlers(t *testing.T) {
	var handled int
	c, _, exitCode := testCLI(t, Config{
		Errors: []ErrorHandler{
			HandleAs(func(e *billingError) int {
				handled = e.code
				return 4
			}),
		},
	})
	must := func(_ *Command, err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(c.Command(Def{Name: "pay", Func: func(Values) error {
		return &billingError{code: 7}
	}}))
	must(c.Command(Def{Name: "noop", Func: func(Values) error { return nil }}))

	if err := c.Run([]string{"pay"}); err != nil {
		t.Fatalf("Run returned %v, want handled", err)
	}
	if handled != 7 {
		t.Errorf("handled code = %d, want 7", handled)
	}
	if *exitCode != 4 {
		t.Errorf("exit code = %d, want 4", *exitCode)
	}
}

func TestErrorHandlerSwallow(t *testing.T) {
	c, _, exitCode := testCLI(t, Config{
		Errors: []ErrorHandler{
			HandleAs(func(*billingError) int { return -1 }),
		},
	})
	must := func(_ *Command, err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(c.Command(Def{Name: "pay", Func: func(Values) error {
		return &billingError{code: 7}
	}}))
	must(c.Command(Def{Name: "noop", Func: func(Values) error { return nil }}))

	if err := c.Run([]string{"pay"}); err != nil {
		t.Fatalf("Run returned %v, want swallowed", err)
	}
	if *exitCode != -1 {
		t.Errorf("exit code = %d, want no exit", *exitCode)
	}
}

func TestUnhandledErrorPropagates(t *testing.T) {
	c, _, _ := testCLI(t, Config{})
	boom := errors.New("boom")
	must := func(_ *Command, err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(c.Command(Def{Name: "x", Func: func(Values) error { return boom }}))
	must(c.Command(Def{Name: "y", Func: func(Values) error { return nil }}))

	if err := c.Run([]string{"x"}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestHelpSuffixOnArgHelp(t *testing.T) {
	c, _, _ := testCLI(t, Config{})
	cmd, err := c.Command(Def{
		Name: "x",
		Params: []Param{
			{Name: "n", Type: argtype.Int},
		},
		Hints: map[string]Arg{
			"n": {Option: "--n", Help: "a number"},
		},
		Func: func(Values) error { return nil },
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := cmd.Spec("n").Help, "a number (int)"; got != want {
		t.Errorf("Help = %q, want %q", got, want)
	}
}

func TestFormatArgHelp(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "short text gains period", text: "Say hello", want: "Say hello."},
		{name: "keeps short sentence pair", text: "Say hello. Loudly, if asked", want: "Say hello."},
		{
			name: "truncates at sentence boundary",
			text: "Do the thing. " + strings.Repeat("More detail without a stop ", 4),
			want: "Do the thing.",
		},
		{
			name: "no boundary gets ellipsis",
			text: strings.Repeat("x", 80),
			want: strings.Repeat("x", 70) + "...",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatArgHelp(tt.text); got != tt.want {
				t.Errorf("formatArgHelp(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFormatTable(t *testing.T) {
	got := formatTable([][2]string{
		{"  alpha", "First."},
		{"  beta", "Second."},
	})
	want := "\n" +
		"  alpha   First. \n" +
		"  beta    Second.\n"
	if got != want {
		t.Errorf("formatTable = %q, want %q", got, want)
	}
}
