package parcels

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Result is the output of one pipeline pass. Lats, Lons and Conc are
// rows x steps matrices with sentinels restored.
type Result struct {
	Lats, Lons, Conc *mat.Dense

	// Intermediate values, kept for range reporting.
	Grid *Decoded
	X, Y *mat.Dense
}

// Dims returns the shape of each output matrix.
func (r *Result) Dims() (rows, steps int) {
	return r.Lats.Dims()
}

// Convert runs decode, grid transform, reprojection, reassembly and
// sentinel restoration over a whole table.
func Convert(t *Table, rp Reprojector) (*Result, error) {
	d := Decode(t)

	x, y := GridToProjected(d.I, d.J)
	rows, steps := x.Dims()

	latv, lonv, err := rp.Reproject(flatten(x), flatten(y))
	if err != nil {
		return nil, fmt.Errorf("reproject (%s): %w", rp.Name(), err)
	}
	if len(latv) != rows*steps || len(lonv) != rows*steps {
		return nil, fmt.Errorf("reproject (%s): %w: got %d/%d points, want %d",
			rp.Name(), ErrShapeMismatch, len(latv), len(lonv), rows*steps)
	}
	lats := mat.NewDense(rows, steps, latv)
	lons := mat.NewDense(rows, steps, lonv)

	out := mat.NewDense(rows, t.Cols(), nil)
	Interleave(out, lats, ChannelI)
	Interleave(out, lons, ChannelJ)
	Interleave(out, d.C, ChannelC)

	if err := Reapply(out, d.Prior, d.Post); err != nil {
		return nil, err
	}

	return &Result{
		Lats: Deinterleave(out, ChannelI),
		Lons: Deinterleave(out, ChannelJ),
		Conc: Deinterleave(out, ChannelC),
		Grid: d,
		X:    x,
		Y:    y,
	}, nil
}

// flatten copies m into a row-major slice.
func flatten(m *mat.Dense) []float64 {
	rows, cols := m.Dims()
	v := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		v = append(v, m.RawRowView(r)...)
	}
	return v
}
