package fetcher

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/zwimpee2/clinical-note-review/internal/table"
)

// ReadXLSX reads the first sheet of an XLSX export into a table. Reviewers
// sometimes hand exports back as spreadsheets instead of CSV; the shape is
// the same, header row first.
func ReadXLSX(path string) (*table.Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("xlsx: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("xlsx: %s sheet is empty", path)
	}

	header := rowToStrings(sheet.Rows[0])
	var rows [][]string
	for _, row := range sheet.Rows[1:] {
		rows = append(rows, rowToStrings(row))
	}

	tbl, err := table.New(header, rows)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: build table")
	}
	return tbl, nil
}

// ReadTable dispatches on the file extension: .xlsx exports go through the
// spreadsheet reader, everything else is treated as CSV.
func ReadTable(path string) (*table.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}
	return ReadCSVFile(path)
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
