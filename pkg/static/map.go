// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package static

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Map is a string-keyed map that serializes as a JSON object while keeping
// insertion order. Command order drives help output, and plain Go maps lose
// it on both marshal and unmarshal.
type Map[V any] struct {
	keys []string
	m    map[string]V
}

// NewMap returns an empty ordered map.
func NewMap[V any]() *Map[V] {
	return &Map[V]{m: make(map[string]V)}
}

// Set inserts or replaces a value. First insertion fixes the key's position.
func (om *Map[V]) Set(key string, v V) {
	if om.m == nil {
		om.m = make(map[string]V)
	}
	if _, ok := om.m[key]; !ok {
		om.keys = append(om.keys, key)
	}
	om.m[key] = v
}

// Get returns the value for key.
func (om *Map[V]) Get(key string) (V, bool) {
	if om == nil {
		var zero V
		return zero, false
	}
	v, ok := om.m[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (om *Map[V]) Keys() []string {
	if om == nil {
		return nil
	}
	return append([]string(nil), om.keys...)
}

// Len returns the number of entries.
func (om *Map[V]) Len() int {
	if om == nil {
		return 0
	}
	return len(om.keys)
}

func (om *Map[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range om.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(om.m[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (om *Map[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	om.keys = nil
	om.m = make(map[string]V)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		var v V
		if err := dec.Decode(&v); err != nil {
			return err
		}
		om.Set(key, v)
	}
	_, err = dec.Token()
	return err
}
