// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gohost

import (
	"reflect"

	"github.com/Parzival-05/spla/backends"
	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/status"
)

// Buffer shares the host memory of the flat slice it was created from.
type Buffer struct {
	flat      any
	dtype     dtypes.DType
	size      int
	finalized bool
}

// DType of the buffer elements.
func (buf *Buffer) DType() dtypes.DType { return buf.dtype }

// Size returns the number of elements.
func (buf *Buffer) Size() int { return buf.size }

// flatDType returns the dtype of the elements of a flat slice, and its length.
func flatDType(flat any) (dtypes.DType, int) {
	t := reflect.TypeOf(flat)
	if t == nil || t.Kind() != reflect.Slice {
		return dtypes.InvalidDType, 0
	}
	dtype := dtypes.FromGoType(t.Elem())
	if !dtype.IsNumeric() {
		return dtypes.InvalidDType, 0
	}
	return dtype, reflect.ValueOf(flat).Len()
}

func checkBuffer(buffer backends.Buffer) (*Buffer, error) {
	buf, ok := buffer.(*Buffer)
	if !ok || buf == nil {
		return nil, status.Errorf(status.InvalidArgument, "buffer %T was not created by backend %q", buffer, BackendName)
	}
	if buf.finalized {
		return nil, status.Errorf(status.InvalidArgument, "buffer already finalized")
	}
	return buf, nil
}

// BufferFromFlatData implements backends.DataInterface. The buffer shares the memory of flat.
func (b *Backend) BufferFromFlatData(flat any) (backends.Buffer, error) {
	dtype, size := flatDType(flat)
	if dtype == dtypes.InvalidDType {
		return nil, status.Errorf(status.InvalidArgument, "can't create a buffer from %T, a slice of int32, uint32 or float32 is required", flat)
	}
	return &Buffer{flat: flat, dtype: dtype, size: size}, nil
}

// BufferToFlatData implements backends.DataInterface.
func (b *Backend) BufferToFlatData(buffer backends.Buffer, flat any) error {
	buf, err := checkBuffer(buffer)
	if err != nil {
		return err
	}
	dtype, size := flatDType(flat)
	if dtype != buf.dtype || size != buf.size {
		return status.Errorf(status.InvalidArgument, "can't copy buffer of %d %s to %T of length %d", buf.size, buf.dtype, flat, size)
	}
	reflect.Copy(reflect.ValueOf(flat), reflect.ValueOf(buf.flat))
	return nil
}

// BufferFinalize implements backends.DataInterface.
func (b *Backend) BufferFinalize(buffer backends.Buffer) error {
	buf, err := checkBuffer(buffer)
	if err != nil {
		return err
	}
	buf.finalized = true
	buf.flat = nil
	return nil
}

// HasSharedBuffers implements backends.DataInterface: buffers always share the host memory.
func (b *Backend) HasSharedBuffers() bool { return true }

// flatOf returns the flat data of a buffer argument, validated by Launch.
func flatOf[T dtypes.Supported](arg any) []T {
	return arg.(*Buffer).flat.([]T)
}
