package parcels

import (
	"gonum.org/v1/gonum/mat"
)

// EASE-Grid North geometry of the NSIDC-0790 parcel grid.
//
// The grid is 361 x 361 cells of 200.5402 km / 8. The middle of cell
// (i=180, j=180) sits on the pole at (x=0, y=0).
const (
	GridSize       = 361
	GridCenter     = 180.0
	GridResolution = 25067.525 // meters per cell
)

// GridToXY converts one grid index pair to projected meters.
func GridToXY(i, j float64) (x, y float64) {
	x = (i - GridCenter) * GridResolution
	y = (GridCenter - j) * GridResolution
	return x, y
}

// GridToProjected converts matrices of grid indices to matrices of
// projected x and y in meters. i and j must have the same shape.
func GridToProjected(i, j mat.Matrix) (x, y *mat.Dense) {
	rows, cols := i.Dims()
	x = mat.NewDense(rows, cols, nil)
	y = mat.NewDense(rows, cols, nil)
	x.Apply(func(_, _ int, v float64) float64 {
		return (v - GridCenter) * GridResolution
	}, i)
	y.Apply(func(_, _ int, v float64) float64 {
		return (GridCenter - v) * GridResolution
	}, j)
	return x, y
}
