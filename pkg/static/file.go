// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package static

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/yeetrun/cmdspec/pkg/argspec"
	"github.com/yeetrun/cmdspec/pkg/cli"
)

// Save writes the snapshot as indented JSON. A path ending in .zst is
// transparently zstd-compressed.
func (d *Data) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var enc *zstd.Encoder
	if strings.HasSuffix(path, ".zst") {
		enc, err = zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		w = enc
	}
	je := json.NewEncoder(w)
	je.SetIndent("", "  ")
	if err := je.Encode(d); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush zstd encoder: %w", err)
		}
	}
	return nil
}

// LoadData reads a snapshot document from disk. A path ending in .zst is
// transparently decompressed.
func LoadData(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &d, nil
}

// CLI is a registry loaded from a snapshot. It is typically run before the
// real CLI so help and argument errors surface without loading the command
// implementations.
type CLI struct {
	*cli.CLI

	Path string
	Data *Data

	// Debug brackets every run with marker lines, making static output
	// distinguishable from the live CLI's in wrapper scripts.
	Debug bool
}

const (
	debugStart = "===== STATIC ====="
	debugEnd   = "=== END STATIC ==="
)

// Load reads a snapshot and rebuilds a runnable registry from it.
// Converters are matched by canonical type name.
func Load(path string, converters argspec.Converters) (*CLI, error) {
	d, err := LoadData(path)
	if err != nil {
		return nil, err
	}
	c, err := d.CLI(converters)
	if err != nil {
		return nil, err
	}
	return &CLI{CLI: c, Path: path, Data: d}, nil
}

// Run executes one invocation against the loaded registry.
func (s *CLI) Run(args []string) error {
	if s.Debug {
		log.Print(debugStart)
		defer log.Print(debugEnd)
	}
	return s.CLI.Run(args)
}
