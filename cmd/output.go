package main

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-signals/internal/ingest"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readPage loads a saved page. "-" reads stdin; an empty path means the business has
// no website and yields "".
func readPage(cmd *cobra.Command, path, charset string) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		return ingest.DecodeHTML(cmd.InOrStdin(), charset)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "open html %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ingest.DecodeHTML(f, charset)
}

// readReviews reads one review per line, skipping blank lines.
func readReviews(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open reviews %s", path)
	}
	defer f.Close() //nolint:errcheck

	var reviews []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			reviews = append(reviews, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "read reviews %s", path)
	}
	return reviews, nil
}
