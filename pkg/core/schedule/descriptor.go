// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"fmt"

	"github.com/Parzival-05/spla/pkg/core/kernels"
	"github.com/Parzival-05/spla/pkg/core/ops"
)

// Descriptor holds optional execution effects of a task. A nil *Descriptor means the defaults: every
// field zero.
type Descriptor struct {
	// StructOnly ignores the mask values: every explicit mask entry is selected.
	StructOnly bool

	// Replace resets the outputs not selected by the mask to init, instead of keeping their previous value.
	// Only masked vector outputs honor it.
	Replace bool

	// Accum, if set, is a binary operator merging the previous output value with the computed one.
	// Only dense outputs (vectors and scalars) honor it.
	Accum *ops.Op
}

// String returns a stable encoding of the descriptor, used in Task.KeyFull.
func (d *Descriptor) String() string {
	if d == nil {
		d = &Descriptor{}
	}
	accum := "none"
	if d.Accum != nil {
		accum = d.Accum.Key()
	}
	return fmt.Sprintf("struct_only=%t,replace=%t,accum=%s", d.StructOnly, d.Replace, accum)
}

// defines returns the template flags for the effects the task supports.
func (d *Descriptor) defines(structOnly, replace bool) []string {
	if d == nil {
		return nil
	}
	var flags []string
	if structOnly && d.StructOnly {
		flags = append(flags, kernels.FlagStructOnly)
	}
	if replace && d.Replace {
		flags = append(flags, kernels.FlagReplace)
	}
	return flags
}
