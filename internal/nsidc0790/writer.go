package nsidc0790

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/mat"
)

// =============================================================================
// CSV Output
// =============================================================================

// WriteCSV writes header followed by the rows of m, every value formatted
// with three decimals and separated by commas.
func WriteCSV(w io.Writer, header string, m mat.Matrix) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(header + "\n"); err != nil {
		return err
	}

	rows, cols := m.Dims()
	buf := make([]byte, 0, 16*cols)
	for r := 0; r < rows; r++ {
		buf = buf[:0]
		for c := 0; c < cols; c++ {
			if c > 0 {
				buf = append(buf, ',')
			}
			buf = appendValue(buf, m.At(r, c))
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// appendValue formats v as %.3f. Non-finite values are spelled nan, inf
// and -inf.
func appendValue(buf []byte, v float64) []byte {
	switch {
	case math.IsNaN(v):
		return append(buf, "nan"...)
	case math.IsInf(v, 1):
		return append(buf, "inf"...)
	case math.IsInf(v, -1):
		return append(buf, "-inf"...)
	}
	return strconv.AppendFloat(buf, v, 'f', 3, 64)
}

// =============================================================================
// Output Files
// =============================================================================

// countingWriter counts bytes written to the file itself.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// OutputFile is a created output, optionally gzip compressed.
type OutputFile struct {
	Path string

	f   *os.File
	cw  *countingWriter
	zw  *gzip.Writer
	out io.Writer
}

// CreateOutput creates path, adding a .gz suffix and a gzip stream when
// compress is set.
func CreateOutput(path string, compress bool) (*OutputFile, error) {
	if compress {
		path += ".gz"
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	o := &OutputFile{Path: path, f: f, cw: &countingWriter{w: f}}
	o.out = o.cw
	if compress {
		o.zw = gzip.NewWriter(o.cw)
		o.out = o.zw
	}
	return o, nil
}

func (o *OutputFile) Write(p []byte) (int, error) {
	return o.out.Write(p)
}

// Size returns the bytes written to disk so far.
func (o *OutputFile) Size() int64 {
	return o.cw.n
}

// Close flushes the gzip stream, if any, and closes the file.
func (o *OutputFile) Close() error {
	var err error
	if o.zw != nil {
		err = o.zw.Close()
	}
	if cerr := o.f.Close(); err == nil {
		err = cerr
	}
	return err
}
