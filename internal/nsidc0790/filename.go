// Package nsidc0790 handles the NSIDC-0790 file conventions: filename
// metadata, the commented CSV header, table reading, and the lat/lon/conc
// output files produced from each input.
package nsidc0790

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DateLayout is the YYYYMMDD form used in filenames and column names.
const DateLayout = "20060102"

// ErrFilenameFormat is returned when the period cannot be read from a filename.
var ErrFilenameFormat = errors.New("could not determine dates from filename")

// Period is the start and end date embedded in an input filename.
type Period struct {
	Start, End time.Time
}

// ParseFilename reads the period from a name of the form
//
//	prefix_label_<startYYYYMMDD>_<endYYYYMMDD>_v<version>.csv[.gz]
//
// e.g. nsidc0790_imparcels_20000801_20010801_v1.0.csv.gz. Directories are
// ignored.
func ParseFilename(path string) (Period, error) {
	base := filepath.Base(path)
	parts := strings.Split(base, "_")
	if len(parts) < 4 {
		return Period{}, fmt.Errorf("%w: %s", ErrFilenameFormat, path)
	}

	start, err := time.Parse(DateLayout, parts[2])
	if err != nil {
		return Period{}, fmt.Errorf("%w: %s", ErrFilenameFormat, path)
	}
	end, err := time.Parse(DateLayout, parts[3])
	if err != nil {
		return Period{}, fmt.Errorf("%w: %s", ErrFilenameFormat, path)
	}
	return Period{Start: start, End: end}, nil
}

// StartLabel returns the start date as YYYYMMDD.
func (p Period) StartLabel() string {
	return p.Start.Format(DateLayout)
}

// EndLabel returns the end date as YYYYMMDD.
func (p Period) EndLabel() string {
	return p.End.Format(DateLayout)
}

// =============================================================================
// Output Naming
// =============================================================================

// Kind identifies one of the three output tables.
type Kind string

const (
	KindLats Kind = "lats"
	KindLons Kind = "lons"
	KindConc Kind = "conc"
)

// Kinds lists the output tables in write order.
var Kinds = []Kind{KindLats, KindLons, KindConc}

// OutputName returns parcels_<kind>_<start>_<end>.csv.
func (p Period) OutputName(k Kind) string {
	return fmt.Sprintf("parcels_%s_%s_%s.csv", k, p.StartLabel(), p.EndLabel())
}

// ParquetName returns parcels_<start>_<end>.parquet.
func (p Period) ParquetName() string {
	return fmt.Sprintf("parcels_%s_%s.parquet", p.StartLabel(), p.EndLabel())
}
