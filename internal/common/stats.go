package common

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Stats holds atomic counters for a run. The ingest tool updates them
// from the signal-aware main loop while the summary may be read at any time.
type Stats struct {
	FilesProcessed atomic.Uint64
	FilesFailed    atomic.Uint64
	RowsProcessed  atomic.Uint64
	CellsProcessed atomic.Uint64
	PriorMissing   atomic.Uint64 // raw cells equal to -999
	PostMissing    atomic.Uint64 // raw cells equal to 999
	BytesRead      atomic.Uint64
	BytesWritten   atomic.Uint64
	RecordsWritten atomic.Uint64 // Parquet / ClickHouse rows

	StartTime time.Time
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// Elapsed returns the time since the run started.
func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}

// Summary logs the final statistics block.
func (s *Stats) Summary(log logrus.FieldLogger) {
	elapsed := s.Elapsed()
	rows := s.RowsProcessed.Load()

	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(rows) / secs
	}

	Banner(log, "Final Statistics")
	log.Infof("Files:         %d (%d failed)", s.FilesProcessed.Load(), s.FilesFailed.Load())
	log.Infof("Parcel rows:   %d", rows)
	log.Infof("Cells:         %d (%d prior-missing, %d post-missing)",
		s.CellsProcessed.Load(), s.PriorMissing.Load(), s.PostMissing.Load())
	log.Infof("Read:          %.2f MiB", float64(s.BytesRead.Load())/(1024*1024))
	log.Infof("Written:       %.2f MiB", float64(s.BytesWritten.Load())/(1024*1024))
	if n := s.RecordsWritten.Load(); n > 0 {
		log.Infof("Records:       %d", n)
	}
	log.Infof("Elapsed:       %v", elapsed.Round(time.Millisecond))
	log.Infof("Rate:          %.0f rows/sec", rate)
	log.Info("=========================================================")
}
