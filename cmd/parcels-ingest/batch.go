package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/ch-go"
	"github.com/ClickHouse/ch-go/proto"
	"github.com/sc0tts/nsidc0790-tools/internal/nsidc0790"
)

// Batch holds column data for native insert
type Batch struct {
	Parcel     *proto.ColUInt32
	Step       *proto.ColUInt32
	Date       *proto.ColDate32
	Lat        *proto.ColFloat64
	Lon        *proto.ColFloat64
	Conc       *proto.ColFloat64
	Missing    *proto.ColStr
	SourceFile *proto.ColStr
}

func NewBatch() *Batch {
	return &Batch{
		Parcel:     new(proto.ColUInt32),
		Step:       new(proto.ColUInt32),
		Date:       new(proto.ColDate32),
		Lat:        new(proto.ColFloat64),
		Lon:        new(proto.ColFloat64),
		Conc:       new(proto.ColFloat64),
		Missing:    new(proto.ColStr),
		SourceFile: new(proto.ColStr),
	}
}

func (b *Batch) Reset() {
	b.Parcel.Reset()
	b.Step.Reset()
	b.Date.Reset()
	b.Lat.Reset()
	b.Lon.Reset()
	b.Conc.Reset()
	b.Missing.Reset()
	b.SourceFile.Reset()
}

func (b *Batch) Len() int {
	return b.Parcel.Rows()
}

func (b *Batch) Input() proto.Input {
	return proto.Input{
		{Name: "parcel", Data: b.Parcel},
		{Name: "step", Data: b.Step},
		{Name: "date", Data: b.Date},
		{Name: "lat", Data: b.Lat},
		{Name: "lon", Data: b.Lon},
		{Name: "conc", Data: b.Conc},
		{Name: "missing", Data: b.Missing},
		{Name: "source_file", Data: b.SourceFile},
	}
}

// AddRecord appends one parcel observation. Steps without a date label
// are stored at the Unix epoch.
func (b *Batch) AddRecord(rec nsidc0790.Record, sourceFile string) {
	date, err := time.Parse(nsidc0790.DateLayout, rec.Date)
	if err != nil {
		date = time.Unix(0, 0).UTC()
	}
	b.Parcel.Append(rec.Parcel)
	b.Step.Append(rec.Step)
	b.Date.Append(date)
	b.Lat.Append(rec.Lat)
	b.Lon.Append(rec.Lon)
	b.Conc.Append(rec.Conc)
	b.Missing.Append(rec.Missing)
	b.SourceFile.Append(sourceFile)
}

func createTableQuery(tableFQN string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    parcel      UInt32,
    step        UInt32,
    date        Date32,
    lat         Float64,
    lon         Float64,
    conc        Float64,
    missing     String,
    source_file String
) ENGINE = MergeTree
ORDER BY (source_file, parcel, step)`, tableFQN)
}

func flushBatch(ctx context.Context, conn *ch.Client, tableFQN string, batch *Batch) error {
	if batch.Len() == 0 {
		return nil
	}

	query := fmt.Sprintf("INSERT INTO %s (parcel, step, date, lat, lon, conc, missing, source_file) VALUES", tableFQN)
	return conn.Do(ctx, ch.Query{
		Body:  query,
		Input: batch.Input(),
	})
}
