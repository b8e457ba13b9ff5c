//go:build proj

package parcels

import (
	"fmt"
	"math"

	"github.com/twpayne/go-proj/v10"
)

// PROJAvailable reports whether the binary was built with PROJ support.
const PROJAvailable = true

// projReprojector delegates to the PROJ library. EPSG:4326 uses the
// authority axis order, so the first output coordinate is latitude.
type projReprojector struct {
	pj *proj.PJ
}

func newPROJReprojector(src, dst CRS) (Reprojector, error) {
	pj, err := proj.NewCRSToCRS(src.Code, dst.Code, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s -> %s: %v", ErrUnsupportedCRS, src.Code, dst.Code, err)
	}
	return &projReprojector{pj: pj}, nil
}

func (r *projReprojector) Name() string {
	return string(BackendPROJ)
}

func (r *projReprojector) Close() error {
	if r.pj != nil {
		r.pj.Destroy()
		r.pj = nil
	}
	return nil
}

func (r *projReprojector) Reproject(xs, ys []float64) ([]float64, []float64, error) {
	if err := checkShape(xs, ys); err != nil {
		return nil, nil, err
	}
	lats := make([]float64, len(xs))
	lons := make([]float64, len(xs))
	for n := range xs {
		if math.IsNaN(xs[n]) || math.IsNaN(ys[n]) {
			lats[n], lons[n] = math.NaN(), math.NaN()
			continue
		}
		c, err := r.pj.Forward(proj.NewCoord(xs[n], ys[n], 0, 0))
		if err != nil {
			// Out of domain; PROJ reports these per point.
			lats[n], lons[n] = math.NaN(), math.NaN()
			continue
		}
		lats[n], lons[n] = c.X(), c.Y()
	}
	return lats, lons, nil
}
