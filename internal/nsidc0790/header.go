package nsidc0790

import (
	"strings"
)

// DataHeaderPrefix marks the i-channel column of each time step in the
// input data header, e.g. i_20000801.
const DataHeaderPrefix = "i_"

// DateLabels returns the names of the prefixed columns with the prefix
// removed, in column order.
func DateLabels(headerLine string) []string {
	line := strings.TrimRight(headerLine, "\r\n")
	var labels []string
	for _, name := range strings.Split(line, ",") {
		if strings.HasPrefix(name, DataHeaderPrefix) {
			labels = append(labels, name[len(DataHeaderPrefix):])
		}
	}
	return labels
}

// DeriveHeader builds the output header row: the date labels joined by
// commas.
func DeriveHeader(headerLine string) string {
	return strings.Join(DateLabels(headerLine), ",")
}
