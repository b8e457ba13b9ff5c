package parcels

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Reapply restores sentinels in out, a matrix in the raw triplet layout.
//
// A triplet is flagged when any of its three raw cells was flagged, and
// then all three channels get the sentinel. Prior is applied before Post,
// so a triplet carrying both ends up as PostMissing.
func Reapply(out *mat.Dense, prior, post *Mask) error {
	rows, cols := out.Dims()
	for _, m := range []*Mask{prior, post} {
		if mr, mc := m.Dims(); mr != rows || mc != cols {
			return fmt.Errorf("%w: mask is %dx%d, table is %dx%d",
				ErrShapeMismatch, mr, mc, rows, cols)
		}
	}

	fill(out, prior, PriorMissing)
	fill(out, post, PostMissing)
	return nil
}

func fill(out *mat.Dense, m *Mask, v float64) {
	rows, cols := out.Dims()
	for r := 0; r < rows; r++ {
		for k := 0; k < cols/TripletWidth; k++ {
			if !m.Triplet(r, k) {
				continue
			}
			for off := 0; off < TripletWidth; off++ {
				out.Set(r, k*TripletWidth+off, v)
			}
		}
	}
}
