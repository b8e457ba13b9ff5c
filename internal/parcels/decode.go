package parcels

import (
	"gonum.org/v1/gonum/mat"
)

// Decoded holds the deinterleaved channels of a table together with the
// sentinel masks of the raw table.
//
// I, J and C come from a working copy in which every sentinel cell was
// zeroed, so downstream math never sees -999 or 999.
type Decoded struct {
	I, J, C *mat.Dense

	Prior *Mask // raw == PriorMissing
	Post  *Mask // raw == PostMissing
}

// Decode splits a table into its I, J and C channels and records the
// sentinel masks. The table itself is not modified.
func Decode(t *Table) *Decoded {
	raw := t.data

	d := &Decoded{
		Prior: MaskEqual(raw, PriorMissing),
		Post:  MaskEqual(raw, PostMissing),
	}

	work := mat.DenseCopyOf(raw)
	rows, cols := work.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if d.Prior.At(r, c) || d.Post.At(r, c) {
				work.Set(r, c, 0)
			}
		}
	}

	d.I = Deinterleave(work, ChannelI)
	d.J = Deinterleave(work, ChannelJ)
	d.C = Deinterleave(work, ChannelC)
	return d
}

// Deinterleave returns every TripletWidth-th column of m starting at offset.
func Deinterleave(m mat.Matrix, offset int) *mat.Dense {
	rows, cols := m.Dims()
	steps := cols / TripletWidth
	out := mat.NewDense(rows, steps, nil)
	for r := 0; r < rows; r++ {
		for k := 0; k < steps; k++ {
			out.Set(r, k, m.At(r, k*TripletWidth+offset))
		}
	}
	return out
}

// Interleave writes the columns of ch into dst at every TripletWidth-th
// column starting at offset. It is the inverse of Deinterleave.
func Interleave(dst *mat.Dense, ch mat.Matrix, offset int) {
	rows, steps := ch.Dims()
	for r := 0; r < rows; r++ {
		for k := 0; k < steps; k++ {
			dst.Set(r, k*TripletWidth+offset, ch.At(r, k))
		}
	}
}
