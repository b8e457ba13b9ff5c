package parcels

import (
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/geom/proj"
)

// laeaReprojector evaluates the inverse north-polar Lambert azimuthal
// equal-area projection on a sphere. Latitude and longitude on the
// authalic sphere are taken as WGS84 coordinates without a datum shift,
// which is the operation PROJ uses between EPSG:3408 and EPSG:4326.
type laeaReprojector struct {
	radius  float64 // sphere radius, meters
	lon0    float64 // central meridian, radians
	x0, y0  float64 // false easting/northing, meters
	toMeter float64
}

func newLAEAReprojector(src, dst CRS) (*laeaReprojector, error) {
	srcSR, err := proj.Parse(src.Definition)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedCRS, src.Code, err)
	}
	if !strings.EqualFold(srcSR.Name, "laea") {
		return nil, fmt.Errorf("%w: %s is %q, need laea", ErrUnsupportedCRS, src.Code, srcSR.Name)
	}
	if math.Abs(srcSR.Lat0-math.Pi/2) > 1e-9 {
		return nil, fmt.Errorf("%w: %s is not a north polar aspect", ErrUnsupportedCRS, src.Code)
	}
	if srcSR.Es != 0 {
		return nil, fmt.Errorf("%w: %s is ellipsoidal", ErrUnsupportedCRS, src.Code)
	}

	dstSR, err := proj.Parse(dst.Definition)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedCRS, dst.Code, err)
	}
	if !strings.EqualFold(dstSR.Name, "longlat") {
		return nil, fmt.Errorf("%w: %s is %q, need longlat", ErrUnsupportedCRS, dst.Code, dstSR.Name)
	}

	r := &laeaReprojector{
		radius:  srcSR.A,
		lon0:    orZero(srcSR.Long0),
		x0:      orZero(srcSR.X0),
		y0:      orZero(srcSR.Y0),
		toMeter: srcSR.ToMeter,
	}
	if math.IsNaN(r.toMeter) || r.toMeter == 0 {
		r.toMeter = 1
	}
	return r, nil
}

// Unset parameters are NaN after proj.Parse.
func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func (r *laeaReprojector) Name() string {
	return string(BackendLAEA)
}

func (r *laeaReprojector) Close() error {
	return nil
}

func (r *laeaReprojector) Reproject(xs, ys []float64) ([]float64, []float64, error) {
	if err := checkShape(xs, ys); err != nil {
		return nil, nil, err
	}
	lats := make([]float64, len(xs))
	lons := make([]float64, len(xs))
	for n := range xs {
		lats[n], lons[n] = r.inverse(xs[n], ys[n])
	}
	return lats, lons, nil
}

// inverse maps one projected point to (lat, lon) in degrees.
func (r *laeaReprojector) inverse(x, y float64) (lat, lon float64) {
	x = (x*r.toMeter - r.x0) / r.radius
	y = (y*r.toMeter - r.y0) / r.radius

	rho := math.Hypot(x, y)
	if math.IsNaN(rho) || rho*0.5 > 1 {
		return math.NaN(), math.NaN()
	}

	phi := math.Pi/2 - 2*math.Asin(rho*0.5)
	lam := adjustLon(math.Atan2(x, -y) + r.lon0)
	return phi * 180 / math.Pi, lam * 180 / math.Pi
}

// adjustLon wraps a longitude in radians into [-pi, pi].
func adjustLon(lam float64) float64 {
	if math.Abs(lam) <= math.Pi {
		return lam
	}
	lam = math.Mod(lam+math.Pi, 2*math.Pi)
	if lam < 0 {
		lam += 2 * math.Pi
	}
	return lam - math.Pi
}
