// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

// Values is the result mapping a command function receives: destination key
// to converted value. The typed getters do the final unpacking; a missing or
// differently-typed entry yields the zero value.
type Values map[string]any

// Has reports whether key was set (explicitly or via a default).
func (v Values) Has(key string) bool {
	val, ok := v[key]
	return ok && val != nil
}

// Any returns the raw value for key.
func (v Values) Any(key string) any { return v[key] }

func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// Path returns a filesystem path argument. Paths are plain strings.
func (v Values) Path(key string) string { return v.String(key) }

func (v Values) Int(key string) int {
	n, _ := v[key].(int)
	return n
}

// Count returns the value of a repeated-flag counter.
func (v Values) Count(key string) int { return v.Int(key) }

func (v Values) Float(key string) float64 {
	f, _ := v[key].(float64)
	return f
}

func (v Values) Bool(key string) bool {
	b, _ := v[key].(bool)
	return b
}

// Strings returns an appended list or the collected extra tokens.
func (v Values) Strings(key string) []string {
	switch val := v[key].(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Ints returns an appended list of integers.
func (v Values) Ints(key string) []int {
	list, _ := v[key].([]any)
	out := make([]int, 0, len(list))
	for _, item := range list {
		if n, ok := item.(int); ok {
			out = append(out, n)
		}
	}
	return out
}

// Floats returns an appended list of floats.
func (v Values) Floats(key string) []float64 {
	list, _ := v[key].([]any)
	out := make([]float64, 0, len(list))
	for _, item := range list {
		if f, ok := item.(float64); ok {
			out = append(out, f)
		}
	}
	return out
}
