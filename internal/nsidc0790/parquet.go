package nsidc0790

import (
	"io"

	"github.com/parquet-go/parquet-go"
	"github.com/sc0tts/nsidc0790-tools/internal/parcels"
)

// Record is one parcel at one time step in long format.
type Record struct {
	Parcel  uint32  `parquet:"parcel"`
	Step    uint32  `parquet:"step"`
	Date    string  `parquet:"date"`
	Lat     float64 `parquet:"lat"`
	Lon     float64 `parquet:"lon"`
	Conc    float64 `parquet:"conc"`
	Missing string  `parquet:"missing"` // "", "prior" or "post"
}

// Missing values of Record.
const (
	MissingNone  = ""
	MissingPrior = "prior"
	MissingPost  = "post"
)

// Records flattens a pipeline result into long format, row by row. labels
// supplies the date of each step; steps beyond the labels get an empty date.
func Records(res *parcels.Result, labels []string) []Record {
	rows, steps := res.Dims()
	recs := make([]Record, 0, rows*steps)
	for r := 0; r < rows; r++ {
		for k := 0; k < steps; k++ {
			rec := Record{
				Parcel: uint32(r),
				Step:   uint32(k),
				Lat:    res.Lats.At(r, k),
				Lon:    res.Lons.At(r, k),
				Conc:   res.Conc.At(r, k),
			}
			if k < len(labels) {
				rec.Date = labels[k]
			}
			switch rec.Lat {
			case parcels.PriorMissing:
				rec.Missing = MissingPrior
			case parcels.PostMissing:
				rec.Missing = MissingPost
			}
			recs = append(recs, rec)
		}
	}
	return recs
}

// WriteParquet writes records as a single Parquet file.
func WriteParquet(w io.Writer, recs []Record) error {
	pw := parquet.NewGenericWriter[Record](w)
	if _, err := pw.Write(recs); err != nil {
		pw.Close()
		return err
	}
	return pw.Close()
}
