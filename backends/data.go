// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backends

// Buffer holds the flat data of one kernel argument (index or value array) in the accelerator.
//
// It is opaque to the engine: only the backend that created it can use it.
type Buffer any

// DataInterface is the Backend's sub-interface that transfers Buffer to/from the accelerator.
type DataInterface interface {
	// BufferFromFlatData transfers flat, a slice of int32, uint32 or float32, to the accelerator.
	//
	// Backends with shared buffers (see HasSharedBuffers) may use flat directly, without copying it:
	// in that case kernel writes are visible in flat as soon as the launch completes.
	BufferFromFlatData(flat any) (Buffer, error)

	// BufferToFlatData transfers the values of buffer back to flat, which must have the same type and length.
	BufferToFlatData(buffer Buffer, flat any) error

	// BufferFinalize informs the backend that buffer is no longer needed and its resources can be freed.
	// A finalized buffer must not be used again.
	BufferFinalize(buffer Buffer) error

	// HasSharedBuffers returns whether the buffers share the host memory of the flat data they were
	// created from, so no transfer back is needed after a launch.
	HasSharedBuffers() bool
}
