//go:build !proj

package parcels

import "fmt"

// PROJAvailable reports whether the binary was built with PROJ support.
const PROJAvailable = false

func newPROJReprojector(src, dst CRS) (Reprojector, error) {
	return nil, fmt.Errorf("%w: rebuild with -tags proj to use %s -> %s through PROJ",
		ErrBackendUnavailable, src.Code, dst.Code)
}
