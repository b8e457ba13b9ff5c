package parcels

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Coordinate Reference Systems
// =============================================================================

// CRS names a coordinate reference system by authority code and carries its
// PROJ4 definition for backends that do not resolve codes themselves.
type CRS struct {
	Code       string
	Definition string
}

var (
	// EASEGridNorth is NSIDC EASE-Grid North: Lambert azimuthal equal-area
	// on the International 1924 authalic sphere, centered on the pole.
	EASEGridNorth = CRS{
		Code:       "EPSG:3408",
		Definition: "+proj=laea +lat_0=90 +lon_0=0 +x_0=0 +y_0=0 +a=6371228 +b=6371228 +units=m +no_defs",
	}

	// WGS84 is geographic latitude/longitude in degrees.
	WGS84 = CRS{
		Code:       "EPSG:4326",
		Definition: "+proj=longlat +datum=WGS84 +no_defs",
	}
)

// =============================================================================
// Reprojector Interface
// =============================================================================

// Reprojector converts projected coordinates to geographic coordinates.
// Implementations are initialized once and reused for every call.
type Reprojector interface {
	// Reproject maps projected xs, ys (meters) to latitudes and longitudes
	// (degrees). Points outside the projection's domain, and NaN inputs,
	// come back as NaN without an error.
	Reproject(xs, ys []float64) (lats, lons []float64, err error)

	// Name returns the backend name for logging.
	Name() string

	// Close releases any resources held by the backend.
	Close() error
}

// Backend selects a Reprojector implementation.
type Backend string

const (
	BackendLAEA Backend = "laea" // Pure Go inverse polar LAEA (default)
	BackendPROJ Backend = "proj" // PROJ via cgo, requires the "proj" build tag
)

var (
	ErrBackendUnavailable = errors.New("reprojection backend unavailable")
	ErrUnsupportedCRS     = errors.New("unsupported coordinate reference system")
	ErrShapeMismatch      = errors.New("coordinate shape mismatch")
)

// ParseBackend converts a backend name from configuration.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendLAEA:
		return BackendLAEA, nil
	case BackendPROJ:
		return BackendPROJ, nil
	}
	return "", fmt.Errorf("%w: unknown backend %q", ErrBackendUnavailable, s)
}

// NewReprojector creates the transform from src to dst for backend b.
func NewReprojector(b Backend, src, dst CRS) (Reprojector, error) {
	switch b {
	case "", BackendLAEA:
		r, err := newLAEAReprojector(src, dst)
		if err != nil {
			return nil, err
		}
		return r, nil
	case BackendPROJ:
		return newPROJReprojector(src, dst)
	}
	return nil, fmt.Errorf("%w: unknown backend %q", ErrBackendUnavailable, b)
}

// Project is the one-shot form of a Reprojector: it builds the transform
// from src to dst, applies it to xs, ys and releases it.
func Project(b Backend, src, dst CRS, xs, ys []float64) (lats, lons []float64, err error) {
	r, err := NewReprojector(b, src, dst)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()
	return r.Reproject(xs, ys)
}

func checkShape(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: %d x values, %d y values", ErrShapeMismatch, len(xs), len(ys))
	}
	return nil
}
