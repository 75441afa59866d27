// Package fetcher parses review export files (CSV and XLSX) into the generic
// tables consumed by the extraction core.
package fetcher

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/zwimpee2/clinical-note-review/internal/table"
)

// ReadCSV parses a CSV export from r. The first row is the header; data rows
// may have variable field counts and sloppy quoting, both common in
// spreadsheet re-exports.
func ReadCSV(r io.Reader) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("csv: empty file")
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		rows = append(rows, record)
	}

	tbl, err := table.New(header, rows)
	if err != nil {
		return nil, eris.Wrap(err, "csv: build table")
	}
	return tbl, nil
}

// ReadCSVFile parses the CSV export at path.
func ReadCSVFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(f)
}
