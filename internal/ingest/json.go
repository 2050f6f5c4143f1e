package ingest

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// DecodeJSONArray streams the elements of a top-level JSON array. Empty input yields
// no elements. Both channels are closed when decoding completes.
func DecodeJSONArray[T any](ctx context.Context, r io.Reader) (<-chan T, <-chan error) {
	outCh := make(chan T, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		dec := json.NewDecoder(r)

		tok, err := dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			errCh <- eris.Wrap(err, "json: read opening token")
			return
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			errCh <- eris.Errorf("json: expected '[', got %v", tok)
			return
		}

		for i := 0; dec.More(); i++ {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
				return
			}

			var item T
			if err := dec.Decode(&item); err != nil {
				errCh <- eris.Wrapf(err, "json: decode element %d", i)
				return
			}

			select {
			case outCh <- item:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
				return
			}
		}

		if _, err := dec.Token(); err != nil && err != io.EOF {
			errCh <- eris.Wrap(err, "json: read closing token")
		}
	}()

	return outCh, errCh
}

// Drain collects everything from a pair of stream channels, returning the first error.
func Drain[T any](outCh <-chan T, errCh <-chan error) ([]T, error) {
	var out []T
	for item := range outCh {
		out = append(out, item)
	}
	for err := range errCh {
		if err != nil {
			return out, err
		}
	}
	return out, nil
}
