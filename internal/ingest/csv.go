// Package ingest reads lead lists (CSV, XLSX or JSON) and saved website pages into
// model records.
package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// Row is one data record. Line is the 1-based position of the record in its source,
// counting the header as line 1.
type Row struct {
	Line   int
	Fields []string
}

// CSVOptions configures ReadCSV.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // 0 = none
	LazyQuotes bool
}

// ReadCSV reads the header synchronously, then streams the remaining records. Fields
// are trimmed of surrounding whitespace. Both channels are closed when the input is
// exhausted, on the first read error, or when ctx is cancelled.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) ([]string, <-chan Row, <-chan error, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.Comment = opts.Comment
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil, eris.New("csv: empty input")
	}
	if err != nil {
		return nil, nil, nil, eris.Wrap(err, "csv: read header")
	}
	trimFields(header)

	rowCh := make(chan Row, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		for line := 2; ; line++ {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrapf(err, "csv: read line %d", line)
				return
			}
			trimFields(record)

			select {
			case rowCh <- Row{Line: line, Fields: record}:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return header, rowCh, errCh, nil
}

func trimFields(fields []string) {
	for i, f := range fields {
		fields[i] = strings.TrimSpace(strings.TrimPrefix(f, "\ufeff"))
	}
}
