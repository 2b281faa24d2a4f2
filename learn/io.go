// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package learn

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Checkpoint is the serialized form of the learned state of a circuit:
// the named weight matrices and their learning statistics.  The format
// is an internal concern (JSON) with no externally mandated layout.
type Checkpoint struct {
	Wts   map[string]*WtMatrix `json:"wts" desc:"weight matrices by layer name"`
	Stats map[string]*Stats    `json:"stats" desc:"learning statistics by layer name"`
}

// NewCheckpoint returns an empty checkpoint.
func NewCheckpoint() *Checkpoint {
	return &Checkpoint{Wts: make(map[string]*WtMatrix), Stats: make(map[string]*Stats)}
}

// Write writes the checkpoint as JSON.
func (ck *Checkpoint) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetIndent("", "\t")
	if err := enc.Encode(ck); err != nil {
		return err
	}
	return bw.Flush()
}

// Read reads a checkpoint previously written with Write, validating
// that each matrix's value count matches its declared shape.
func (ck *Checkpoint) Read(r io.Reader) error {
	dec := json.NewDecoder(bufio.NewReader(r))
	if err := dec.Decode(ck); err != nil {
		return err
	}
	for nm, wm := range ck.Wts {
		if len(wm.Wts) != wm.Rows*wm.Cols {
			return fmt.Errorf("learn.Checkpoint: matrix %q has %d values, want %d", nm, len(wm.Wts), wm.Rows*wm.Cols)
		}
	}
	return nil
}
