// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package storage implements minimal host-resident containers for the arguments of the scheduled tasks:
// sparse matrices in CSR format, dense vectors and scalars.
//
// Every container is an Object with a unique identity, used by the scheduler to detect tasks writing
// objects that other tasks of the same step access.
package storage

import (
	"fmt"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Object is an argument of a task.
type Object interface {
	// ID uniquely identifies the object for the lifetime of the process.
	ID() uuid.UUID

	// DType of the object values.
	DType() dtypes.DType

	// Shape returns the dimensions of the object: (rows, cols) for matrices, (size) for vectors,
	// and nothing for scalars.
	Shape() []int

	// Bytes returns the host memory used by the object data.
	Bytes() int

	fmt.Stringer
}

// base implements the identity part of Object.
type base[T dtypes.Supported] struct {
	id uuid.UUID
}

func newBase[T dtypes.Supported]() base[T] {
	return base[T]{id: uuid.New()}
}

// ID implements Object.
func (b base[T]) ID() uuid.UUID { return b.id }

// DType implements Object.
func (b base[T]) DType() dtypes.DType { return dtypes.FromGenericsType[T]() }

// describe formats the common part of String().
func describe(kind string, obj Object, shape string) string {
	return fmt.Sprintf("%s[%s]%s (%s, id=%s)", kind, obj.DType().Code(), shape,
		humanize.IBytes(uint64(obj.Bytes())), obj.ID().String()[:8])
}

const indexSize = 4 // bytes of a uint32 index.
