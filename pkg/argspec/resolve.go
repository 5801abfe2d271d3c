// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argspec

import (
	"fmt"
	"strings"

	"github.com/yeetrun/cmdspec/pkg/argtype"
)

// Resolve maps one declared parameter type to a Spec. It is pure and
// recursive; converters registered in lookup win over builtin handling, and
// exact generic instantiations win over bare generic origins.
//
// Resolution order, first match wins:
// count flag, converter lookup, optional/union unwrap, primitive, bool,
// enum, literal choice, list of literals, list/iterable, unsupported.
func Resolve(id string, arg Arg, declared *argtype.Type, def any, hasDefault bool, lookup Converters) (*Spec, error) {
	return resolve(id, arg, declared, declared, def, hasDefault, lookup)
}

func resolve(id string, arg Arg, declared, origType *argtype.Type, def any, hasDefault bool, lookup Converters) (*Spec, error) {
	spec := &Spec{
		ID:         id,
		Arg:        arg,
		OrigType:   origType,
		Default:    def,
		HasDefault: hasDefault,
		Help:       arg.Help,
	}

	if arg.Count {
		spec.Action = ActionCount
		spec.Type = nil
		if !spec.HasDefault {
			spec.Default = 0
			spec.HasDefault = true
		}
		return spec, nil
	}

	// Converter precedence: global exact match, then the hint's own
	// converter, then a global entry for the bare generic origin.
	if conv := findConverter(arg, declared, lookup); conv != nil {
		spec.Converter = conv
		spec.HasConverter = true
		return spec, nil
	}

	if declared == nil {
		return nil, &UnsupportedTypeError{ID: id, Type: declared}
	}

	switch declared.Kind {
	case argtype.KindOptional, argtype.KindUnion:
		alts := make([]*argtype.Type, 0, len(declared.Args))
		nullable := declared.Kind == argtype.KindOptional
		for _, alt := range declared.Args {
			if alt.Kind == argtype.KindNone {
				nullable = true
				continue
			}
			alts = append(alts, alt)
		}
		if nullable && !hasDefault {
			def = nil
			hasDefault = true
		}
		if len(alts) == 0 {
			return nil, &UnsupportedTypeError{ID: id, Type: declared}
		}
		// A union of several concrete alternatives resolves against the
		// first one only; callers rely on this for cheap coercions.
		return resolve(id, arg, alts[0], alts[0], def, hasDefault, lookup)

	case argtype.KindString, argtype.KindInt, argtype.KindFloat, argtype.KindPath:
		spec.Type = declared
		return spec, nil

	case argtype.KindBool:
		if arg.Option == "" {
			hint := "--" + strings.ReplaceAll(id, "_", "-")
			return nil, &InvalidArgumentError{
				ID:  id,
				Msg: "boolean arguments need to be flags, e.g. " + hint,
			}
		}
		spec.Type = nil
		if hasDefault && def == true {
			spec.Action = ActionBoolOptional
			spec.Default = true
		} else {
			spec.Action = ActionStoreTrue
			spec.Default = false
		}
		spec.HasDefault = true
		return spec, nil

	case argtype.KindEnum:
		spec.Type = declared
		spec.Choices = declared.MemberNames()
		spec.Converter = enumConverter(declared)
		return spec, nil

	case argtype.KindLiteral:
		if len(declared.Literals) == 0 {
			return nil, &UnsupportedTypeError{ID: id, Type: declared}
		}
		spec.Type = literalType(declared.Literals[0])
		spec.Converter = PrimitiveConverter(spec.Type)
		spec.Choices = literalChoices(declared.Literals)
		return spec, nil

	case argtype.KindList:
		elem := declared.Elem()
		if elem != nil && elem.Kind == argtype.KindLiteral && len(elem.Literals) > 0 {
			spec.Type = literalType(elem.Literals[0])
			spec.Converter = PrimitiveConverter(spec.Type)
			spec.Choices = literalChoices(elem.Literals)
			spec.Action = ActionAppend
			return spec, nil
		}
		spec.Type = findBaseType(elem)
		spec.Action = ActionAppend
		return spec, nil
	}

	return nil, &UnsupportedTypeError{ID: id, Type: declared}
}

func findConverter(arg Arg, t *argtype.Type, lookup Converters) Converter {
	if t == nil {
		return arg.Converter
	}
	if conv, ok := lookup[t.String()]; ok {
		return conv
	}
	if arg.Converter != nil {
		return arg.Converter
	}
	if origin := t.Origin(); origin != t.String() {
		if conv, ok := lookup[origin]; ok {
			return conv
		}
	}
	return nil
}

// findBaseType picks the element type for a list: the first base type found
// in the element (searching union alternatives in priority order), defaulting
// to string so unknown elements degrade to raw tokens instead of failing.
func findBaseType(elem *argtype.Type) *argtype.Type {
	if elem == nil {
		return argtype.String
	}
	candidates := []*argtype.Type{elem}
	if elem.Kind == argtype.KindUnion || elem.Kind == argtype.KindOptional {
		candidates = elem.Args
	}
	for _, base := range argtype.BaseTypes {
		for _, cand := range candidates {
			if cand.Is(base) {
				return base
			}
		}
	}
	return argtype.String
}

func enumConverter(enum *argtype.Type) Converter {
	return func(value string) (any, error) {
		for _, m := range enum.Members {
			if m.Name == value {
				return m.Value, nil
			}
		}
		// Choices enforcement happens at the grammar layer; fall back to
		// the raw string rather than failing twice.
		return value, nil
	}
}

func literalType(first any) *argtype.Type {
	switch first.(type) {
	case int:
		return argtype.Int
	case float64:
		return argtype.Float
	default:
		return argtype.String
	}
}

func literalChoices(vals []any) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = toChoice(v)
	}
	return out
}

func toChoice(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
