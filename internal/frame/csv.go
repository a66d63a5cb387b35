package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoHeader is returned by ReadCSV when the input has no header row.
var ErrNoHeader = errors.New("csv has no header row")

const utf8BOM = "\ufeff"

// ReadCSV reads a headed CSV document into a Frame. Empty cells become
// missing values. Short rows leave trailing columns missing and extra cells
// beyond the header are ignored.
func ReadCSV(r io.Reader) (Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, ErrNoHeader
		}
		return Frame{}, fmt.Errorf("read header: %w", err)
	}
	// first maps each header name to the index of its first occurrence;
	// cells under a later duplicate header are ignored.
	first := make(map[string]int, len(header))
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		if _, ok := first[header[i]]; !ok {
			first[header[i]] = i
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Frame{}, fmt.Errorf("read record: %w", err)
		}

		row := make(Row, len(header))
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			if first[header[i]] != i {
				continue
			}
			row.Set(header[i], cell)
		}
		rows = append(rows, row)
	}

	return New(header, rows), nil
}
