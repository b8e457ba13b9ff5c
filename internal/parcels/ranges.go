package parcels

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SentinelBound separates valid values from sentinels in range reports.
const SentinelBound = 900.0

// Range holds the extent of a set of values.
type Range struct {
	Min, Max float64
	Count    int
}

// Valid reports whether at least one value contributed to the range.
func (r Range) Valid() bool {
	return r.Count > 0
}

// RangeOf returns the extent of m ignoring NaN.
func RangeOf(m mat.Matrix) Range {
	return rangeWhere(m, func(v float64) bool { return !math.IsNaN(v) })
}

// ValidRangeOf returns the extent of m over values strictly inside
// (-SentinelBound, SentinelBound).
func ValidRangeOf(m mat.Matrix) Range {
	return rangeWhere(m, func(v float64) bool {
		return v > -SentinelBound && v < SentinelBound
	})
}

func rangeWhere(m mat.Matrix, keep func(float64) bool) Range {
	rows, cols := m.Dims()
	vals := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if v := m.At(r, c); keep(v) {
				vals = append(vals, v)
			}
		}
	}
	if len(vals) == 0 {
		return Range{Min: math.NaN(), Max: math.NaN()}
	}
	return Range{Min: floats.Min(vals), Max: floats.Max(vals), Count: len(vals)}
}
