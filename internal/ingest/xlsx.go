package ingest

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXOptions selects the worksheet to read.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// ReadXLSX returns the header row and the data rows of one worksheet. Trailing rows
// whose cells are all blank are dropped.
func ReadXLSX(path string, opts XLSXOptions) ([]string, []Row, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := selectSheet(f, opts)
	if err != nil {
		return nil, nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, nil, eris.Errorf("xlsx: sheet %q is empty", sheet.Name)
	}

	header := cellStrings(sheet.Rows[0])
	trimFields(header)

	var rows []Row
	for i, r := range sheet.Rows[1:] {
		fields := cellStrings(r)
		trimFields(fields)
		if blank(fields) {
			continue
		}
		rows = append(rows, Row{Line: i + 2, Fields: fields})
	}
	return header, rows, nil
}

func selectSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex < 0 || opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}

func cellStrings(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.String()
	}
	return out
}

func blank(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}
