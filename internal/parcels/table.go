// Package parcels implements the NSIDC-0790 coordinate pipeline.
// It decodes packed (i, j, concentration) triplets, converts EASE-Grid
// indices to projected meters, reprojects them to latitude/longitude and
// restores the dataset's missing-value sentinels.
package parcels

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// =============================================================================
// Table Constants
// =============================================================================

const (
	// PriorMissing marks a parcel that does not exist yet at a time step.
	PriorMissing = -999.0

	// PostMissing marks a parcel that no longer exists at a time step.
	PostMissing = 999.0

	// TripletWidth is the number of columns per time step (i, j, conc).
	TripletWidth = 3
)

// Channel offsets within a triplet.
const (
	ChannelI = iota
	ChannelJ
	ChannelC
)

// ErrMalformedTable is returned when a table cannot be split into triplets.
var ErrMalformedTable = errors.New("malformed table")

// =============================================================================
// Table
// =============================================================================

// Table is a dense rows x (3*k) matrix of packed triplets, one row per
// parcel and one triplet per time step.
type Table struct {
	data *mat.Dense
}

// NewTable builds a Table from row slices. All rows must have the same
// length and that length must be a positive multiple of TripletWidth.
func NewTable(rows [][]float64) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrMalformedTable)
	}
	cols := len(rows[0])
	if err := checkColumns(cols); err != nil {
		return nil, err
	}

	data := make([]float64, 0, len(rows)*cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d",
				ErrMalformedTable, r+1, len(row), cols)
		}
		data = append(data, row...)
	}
	return &Table{data: mat.NewDense(len(rows), cols, data)}, nil
}

// NewTableFromDense wraps an existing matrix. The matrix is copied.
func NewTableFromDense(m mat.Matrix) (*Table, error) {
	r, c := m.Dims()
	if r == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrMalformedTable)
	}
	if err := checkColumns(c); err != nil {
		return nil, err
	}
	return &Table{data: mat.DenseCopyOf(m)}, nil
}

func checkColumns(cols int) error {
	if cols == 0 {
		return fmt.Errorf("%w: no data columns", ErrMalformedTable)
	}
	if cols%TripletWidth != 0 {
		return fmt.Errorf("%w: %d columns is not a multiple of %d",
			ErrMalformedTable, cols, TripletWidth)
	}
	return nil
}

// Rows returns the number of parcels in the table.
func (t *Table) Rows() int {
	r, _ := t.data.Dims()
	return r
}

// Cols returns the raw column count.
func (t *Table) Cols() int {
	_, c := t.data.Dims()
	return c
}

// Steps returns the number of triplets per row.
func (t *Table) Steps() int {
	return t.Cols() / TripletWidth
}

// At returns the raw value at row r, column c.
func (t *Table) At(r, c int) float64 {
	return t.data.At(r, c)
}

// Dense returns a copy of the underlying matrix.
func (t *Table) Dense() *mat.Dense {
	return mat.DenseCopyOf(t.data)
}

// =============================================================================
// Mask
// =============================================================================

// Mask is a boolean matrix aligned cell-for-cell with a raw Table.
type Mask struct {
	rows, cols int
	bits       []bool
}

// NewMask returns an all-false mask of the given shape.
func NewMask(rows, cols int) *Mask {
	return &Mask{rows: rows, cols: cols, bits: make([]bool, rows*cols)}
}

// MaskEqual flags every cell of m that is exactly equal to v.
func MaskEqual(m mat.Matrix, v float64) *Mask {
	r, c := m.Dims()
	mask := NewMask(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if m.At(i, j) == v {
				mask.bits[i*c+j] = true
			}
		}
	}
	return mask
}

// Dims returns the mask shape.
func (m *Mask) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// At reports whether cell (r, c) is flagged.
func (m *Mask) At(r, c int) bool {
	return m.bits[r*m.cols+c]
}

// Set flags or clears cell (r, c).
func (m *Mask) Set(r, c int, v bool) {
	m.bits[r*m.cols+c] = v
}

// Triplet reports whether any cell of triplet k in row r is flagged.
func (m *Mask) Triplet(r, k int) bool {
	base := r*m.cols + k*TripletWidth
	for off := 0; off < TripletWidth; off++ {
		if m.bits[base+off] {
			return true
		}
	}
	return false
}

// Count returns the number of flagged cells.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}
