// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argspec

import (
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/yeetrun/cmdspec/pkg/argtype"
)

// Converter maps a raw string token to a typed value. Errors propagate as
// parser errors, never as invalid-choice failures.
type Converter func(value string) (any, error)

// Converters maps canonical type strings (argtype.Type.String) to converters.
// One string key space covers both live registration and snapshot reload.
type Converters map[string]Converter

// Merge combines defaults with overrides; override entries fully replace
// colliding keys.
func Merge(defaults, overrides Converters) Converters {
	out := make(Converters, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Get looks up a converter by exact type identity, then by the bare generic
// origin for specific instantiations. No fallback across unrelated types.
func (c Converters) Get(t *argtype.Type) Converter {
	if c == nil || t == nil {
		return nil
	}
	if conv, ok := c[t.String()]; ok {
		return conv
	}
	if origin := t.Origin(); origin != t.String() {
		if conv, ok := c[origin]; ok {
			return conv
		}
	}
	return nil
}

// Custom path-flavored types recognized by the default converter table.
var (
	ExistingPath     = argtype.NewType("ExistingPath", argtype.Path)
	ExistingFilePath = argtype.NewType("ExistingFilePath", argtype.Path)
	ExistingDirPath  = argtype.NewType("ExistingDirPath", argtype.Path)

	ExistingPathOrDash     = argtype.NewType("ExistingPathOrDash", argtype.Path)
	ExistingFilePathOrDash = argtype.NewType("ExistingFilePathOrDash", argtype.Path)
	ExistingDirPathOrDash  = argtype.NewType("ExistingDirPathOrDash", argtype.Path)
	PathOrDash             = argtype.NewType("PathOrDash", argtype.Path)

	UUID      = argtype.NewType("UUID", argtype.String)
	StrOrUUID = argtype.NewType("StrOrUUID", argtype.String)
	Version   = argtype.NewType("Version", argtype.String)
)

// ConvertExistingPath converts a token to a path that must exist.
func ConvertExistingPath(value string) (any, error) {
	if _, err := os.Stat(value); err != nil {
		return nil, Parserf("path does not exist: %s", value)
	}
	return value, nil
}

// ConvertExistingFilePath converts a token to an existing regular file path.
func ConvertExistingFilePath(value string) (any, error) {
	info, err := os.Stat(value)
	if err != nil {
		return nil, Parserf("path does not exist: %s", value)
	}
	if info.IsDir() {
		return nil, Parserf("path is not a file path: %s", value)
	}
	return value, nil
}

// ConvertExistingDirPath converts a token to an existing directory path.
func ConvertExistingDirPath(value string) (any, error) {
	info, err := os.Stat(value)
	if err != nil {
		return nil, Parserf("path does not exist: %s", value)
	}
	if !info.IsDir() {
		return nil, Parserf("path is not a directory path: %s", value)
	}
	return value, nil
}

// ConvertUUID parses a token as a canonical UUID.
func ConvertUUID(value string) (any, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, Parserf("invalid UUID: %s", value)
	}
	return id, nil
}

// ConvertStrOrUUID returns a parsed UUID when the token is one, the raw
// string otherwise.
func ConvertStrOrUUID(value string) (any, error) {
	if id, err := uuid.Parse(value); err == nil {
		return id, nil
	}
	return value, nil
}

// ConvertVersion parses a token as a semantic version.
func ConvertVersion(value string) (any, error) {
	v, err := semver.NewVersion(value)
	if err != nil {
		return nil, Parserf("invalid version: %s", value)
	}
	return v, nil
}

func orDash(conv Converter) Converter {
	return func(value string) (any, error) {
		if value == "-" {
			return value, nil
		}
		return conv(value)
	}
}

// DefaultConverters is the builtin converter table. Caller-supplied tables
// are merged on top, caller entries winning on collision.
func DefaultConverters() Converters {
	return Converters{
		ExistingPath.String():     ConvertExistingPath,
		ExistingFilePath.String(): ConvertExistingFilePath,
		ExistingDirPath.String():  ConvertExistingDirPath,

		ExistingPathOrDash.String():     orDash(ConvertExistingPath),
		ExistingFilePathOrDash.String(): orDash(ConvertExistingFilePath),
		ExistingDirPathOrDash.String():  orDash(ConvertExistingDirPath),
		PathOrDash.String(): func(value string) (any, error) {
			return value, nil
		},

		UUID.String():      ConvertUUID,
		StrOrUUID.String(): ConvertStrOrUUID,
		Version.String():   ConvertVersion,
	}
}

// PrimitiveConverter returns the parse function for a base type, or nil when
// t is not one of the parseable primitives.
func PrimitiveConverter(t *argtype.Type) Converter {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case argtype.KindString, argtype.KindPath:
		return func(value string) (any, error) { return value, nil }
	case argtype.KindInt:
		return func(value string) (any, error) {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, Parserf("invalid int value: '%s'", value)
			}
			return n, nil
		}
	case argtype.KindFloat:
		return func(value string) (any, error) {
			f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return nil, Parserf("invalid float value: '%s'", value)
			}
			return f, nil
		}
	}
	return nil
}

// ListConverter builds a converter that splits one token into a list of
// item-typed values. It accepts delimiter-separated strings ("a, b,c") and
// bracketed lists with optional quoting ("[a, b]", `["a", "b"]`).
func ListConverter(item *argtype.Type, delimiter string) Converter {
	if delimiter == "" {
		delimiter = ","
	}
	itemConv := PrimitiveConverter(item)
	return func(value string) (any, error) {
		s := strings.TrimSpace(value)
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			s = s[1 : len(s)-1]
		}
		var out []any
		for _, part := range strings.Split(s, delimiter) {
			part = strings.TrimSpace(part)
			part = strings.Trim(part, `"'`)
			if part == "" {
				continue
			}
			if itemConv == nil {
				out = append(out, part)
				continue
			}
			v, err := itemConv(part)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
}
