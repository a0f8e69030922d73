// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package storage

import (
	"fmt"
	"slices"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/status"
)

// Matrix is a sparse matrix in CSR (compressed sparse row) format.
//
// The column indices of each row are strictly ascending: the masked multiply kernels rely on it
// for their merge-join, so every constructor validates it.
type Matrix[T dtypes.Supported] struct {
	base[T]
	numRows, numCols int

	// rowPtr has numRows+1 entries: the entries of row i are at positions [rowPtr[i], rowPtr[i+1]).
	rowPtr []uint32
	colIdx []uint32
	values []T
}

var _ Object = (*Matrix[int32])(nil)

// NewMatrix returns an empty (no explicit entries) numRows x numCols matrix.
func NewMatrix[T dtypes.Supported](numRows, numCols int) *Matrix[T] {
	return &Matrix[T]{
		base:    newBase[T](),
		numRows: max(numRows, 0),
		numCols: max(numCols, 0),
		rowPtr:  make([]uint32, max(numRows, 0)+1),
	}
}

// MatrixFromCSR creates a matrix from its CSR arrays, which are owned by the matrix afterwards.
//
// It returns an InvalidArgument error if the arrays are inconsistent or the column indices of a row
// are not strictly ascending.
func MatrixFromCSR[T dtypes.Supported](numRows, numCols int, rowPtr, colIdx []uint32, values []T) (*Matrix[T], error) {
	if numRows < 0 || numCols < 0 {
		return nil, status.Errorf(status.InvalidArgument, "invalid matrix dimensions %dx%d", numRows, numCols)
	}
	m := NewMatrix[T](numRows, numCols)
	if err := m.SetCSR(rowPtr, colIdx, values); err != nil {
		return nil, err
	}
	return m, nil
}

// MatrixFromDense creates a matrix with the non-zero values of rows, which must all have the same length.
func MatrixFromDense[T dtypes.Supported](rows [][]T) (*Matrix[T], error) {
	numCols := 0
	if len(rows) > 0 {
		numCols = len(rows[0])
	}
	rowPtr := make([]uint32, 0, len(rows)+1)
	rowPtr = append(rowPtr, 0)
	var colIdx []uint32
	var values []T
	for i, row := range rows {
		if len(row) != numCols {
			return nil, status.Errorf(status.InvalidArgument, "row %d has %d columns, expected %d", i, len(row), numCols)
		}
		for j, v := range row {
			if v != 0 {
				colIdx = append(colIdx, uint32(j))
				values = append(values, v)
			}
		}
		rowPtr = append(rowPtr, uint32(len(colIdx)))
	}
	return MatrixFromCSR(len(rows), numCols, rowPtr, colIdx, values)
}

// MustMatrixFromDense is like MatrixFromDense, but panics on error.
func MustMatrixFromDense[T dtypes.Supported](rows [][]T) *Matrix[T] {
	m, err := MatrixFromDense(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// SetCSR replaces the contents of the matrix, keeping its dimensions and identity.
func (m *Matrix[T]) SetCSR(rowPtr, colIdx []uint32, values []T) error {
	if len(rowPtr) != m.numRows+1 {
		return status.Errorf(status.InvalidArgument, "row pointers for a %d rows matrix must have %d entries, got %d",
			m.numRows, m.numRows+1, len(rowPtr))
	}
	if rowPtr[0] != 0 {
		return status.Errorf(status.InvalidArgument, "first row pointer must be 0, got %d", rowPtr[0])
	}
	nnz := int(rowPtr[m.numRows])
	if len(colIdx) != nnz || len(values) != nnz {
		return status.Errorf(status.InvalidArgument, "matrix with %d entries has %d column indices and %d values",
			nnz, len(colIdx), len(values))
	}
	for row := range m.numRows {
		start, end := rowPtr[row], rowPtr[row+1]
		if end < start || int(end) > nnz {
			return status.Errorf(status.InvalidArgument, "invalid row pointers at row %d: [%d, %d) with %d entries",
				row, start, end, nnz)
		}
		for k := start; k < end; k++ {
			if int(colIdx[k]) >= m.numCols {
				return status.Errorf(status.InvalidArgument, "column index %d out of range at row %d (%d columns)",
					colIdx[k], row, m.numCols)
			}
			if k > start && colIdx[k] <= colIdx[k-1] {
				return status.Errorf(status.InvalidArgument, "column indices of row %d are not strictly ascending", row)
			}
		}
	}
	m.rowPtr, m.colIdx, m.values = rowPtr, colIdx, values
	return nil
}

// NumRows returns the number of rows.
func (m *Matrix[T]) NumRows() int { return m.numRows }

// NumCols returns the number of columns.
func (m *Matrix[T]) NumCols() int { return m.numCols }

// NNZ returns the number of explicit entries.
func (m *Matrix[T]) NNZ() int { return len(m.colIdx) }

// Shape implements Object.
func (m *Matrix[T]) Shape() []int { return []int{m.numRows, m.numCols} }

// Bytes implements Object.
func (m *Matrix[T]) Bytes() int {
	return (len(m.rowPtr)+len(m.colIdx))*indexSize + len(m.values)*m.DType().Size()
}

// RowPtr returns the row pointers. They must not be modified.
func (m *Matrix[T]) RowPtr() []uint32 { return m.rowPtr }

// ColIdx returns the column indices. They must not be modified.
func (m *Matrix[T]) ColIdx() []uint32 { return m.colIdx }

// Values returns the values of the explicit entries, which can be modified in place.
func (m *Matrix[T]) Values() []T { return m.values }

// Get returns the value at (row, col), and whether it is an explicit entry.
func (m *Matrix[T]) Get(row, col int) (value T, found bool) {
	if row < 0 || row >= m.numRows {
		return value, false
	}
	cols := m.colIdx[m.rowPtr[row]:m.rowPtr[row+1]]
	if k, found := slices.BinarySearch(cols, uint32(col)); found {
		return m.values[int(m.rowPtr[row])+k], true
	}
	return value, false
}

// ToDense returns the matrix as a dense row-major array, with zeros for the missing entries.
func (m *Matrix[T]) ToDense() [][]T {
	dense := make([][]T, m.numRows)
	for row := range dense {
		dense[row] = make([]T, m.numCols)
		for k := m.rowPtr[row]; k < m.rowPtr[row+1]; k++ {
			dense[row][m.colIdx[k]] = m.values[k]
		}
	}
	return dense
}

// String implements fmt.Stringer.
func (m *Matrix[T]) String() string {
	return describe("Matrix", m, fmt.Sprintf(" %dx%d, %d nnz", m.numRows, m.numCols, m.NNZ()))
}
