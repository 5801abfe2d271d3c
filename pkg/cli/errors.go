// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeetrun/cmdspec/pkg/argspec"
)

// Registration-time errors from the resolver, re-exported so callers only
// deal with this package.
type (
	ParserError          = argspec.ParserError
	UnsupportedTypeError = argspec.UnsupportedTypeError
	InvalidArgumentError = argspec.InvalidArgumentError
)

// CommandExistsError reports a duplicate (parent, name) registration.
type CommandExistsError struct {
	Name string
}

func (e *CommandExistsError) Error() string {
	return fmt.Sprintf("command '%s' already exists", e.Name)
}

// CommandNotFoundError reports an unknown top-level command name.
type CommandNotFoundError struct {
	Name      string
	Available []string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("can't find command '%s'. Available: %s",
		e.Name, strings.Join(e.Available, ", "))
}

// ErrorHandler inspects an error raised by a command function (or by the
// parser). A handler that does not recognize the error returns handled=false
// so the next handler gets a look. A non-negative code requests immediate
// process termination with that exit status; a negative code swallows the
// error and lets the run finish normally.
type ErrorHandler func(err error) (code int, handled bool)

// HandleAs builds a handler matched with errors.As, so a handler registered
// for a type also fires for errors wrapping it.
func HandleAs[E error](fn func(E) int) ErrorHandler {
	return func(err error) (int, bool) {
		var e E
		if errors.As(err, &e) {
			return fn(e), true
		}
		return 0, false
	}
}
