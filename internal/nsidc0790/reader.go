package nsidc0790

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/sc0tts/nsidc0790-tools/internal/parcels"
)

// DefaultHeaderLines is the number of lines preceding the data in
// NSIDC-0790 v1.x files. The last of them is the data header.
const DefaultHeaderLines = 14

// ErrInputNotFound is returned when the input path does not exist.
var ErrInputNotFound = errors.New("specified input file does not exist")

// Input is a parsed NSIDC-0790 table.
type Input struct {
	HeaderLine string   // raw data header, line endings trimmed
	Labels     []string // date labels derived from HeaderLine
	Table      *parcels.Table
	Size       int64 // bytes on disk
}

// Header returns the output header row.
func (in *Input) Header() string {
	return strings.Join(in.Labels, ",")
}

// =============================================================================
// File Operations
// =============================================================================

type gzipFile struct {
	*pgzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	err := g.Reader.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Open opens path for reading, transparently decompressing .gz files.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	zr, err := pgzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gzip %s: %w", path, err)
	}
	return &gzipFile{Reader: zr, f: f}, nil
}

// ReadFile opens and parses an NSIDC-0790 table.
func ReadFile(path string, headerLines int) (*Input, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	in, err := ReadTable(rc, headerLines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	in.Size = info.Size()
	return in, nil
}

// =============================================================================
// Table Parsing
// =============================================================================

// ReadTable reads headerLines header lines, the last of which is the data
// header, followed by comma-separated rows of floats. Blank lines and lines
// starting with '#' in the data section are skipped.
func ReadTable(r io.Reader, headerLines int) (*Input, error) {
	if headerLines < 1 {
		return nil, fmt.Errorf("%w: need at least one header line, got %d",
			parcels.ErrMalformedTable, headerLines)
	}

	br := bufio.NewReaderSize(r, 1<<20)

	var header string
	for n := 1; n <= headerLines; n++ {
		line, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: expected %d header lines, found %d",
					parcels.ErrMalformedTable, headerLines, n-1)
			}
			return nil, err
		}
		header = line
	}
	header = strings.TrimRight(header, "\r\n")

	rows, err := parseRows(br, headerLines)
	if err != nil {
		return nil, err
	}
	table, err := parcels.NewTable(rows)
	if err != nil {
		return nil, err
	}

	return &Input{
		HeaderLine: header,
		Labels:     DateLabels(header),
		Table:      table,
	}, nil
}

func parseRows(r io.Reader, lineOffset int) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var rows [][]float64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, fmt.Errorf("%w: line %d: %v",
					parcels.ErrMalformedTable, pe.Line+lineOffset, pe.Err)
			}
			return nil, err
		}

		row := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				line, _ := cr.FieldPos(i)
				return nil, fmt.Errorf("%w: line %d column %d: %q is not a number",
					parcels.ErrMalformedTable, line+lineOffset, i+1, field)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
