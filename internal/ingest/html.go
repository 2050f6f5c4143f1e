package ingest

import (
	"bytes"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// MaxHTMLBytes caps how much of a saved page is read.
const MaxHTMLBytes = 10 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadHTML reads a saved page from disk and decodes it to UTF-8.
func ReadHTML(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "ingest: open html %s", path)
	}
	defer f.Close() //nolint:errcheck

	return DecodeHTML(f, "")
}

// DecodeHTML reads a page and converts it to UTF-8. hint is either a Content-Type
// header value ("text/html; charset=iso-8859-1"), a bare charset label ("shift_jis")
// or empty. Without a usable hint the encoding is sniffed from the BOM and <meta>
// tags, defaulting to windows-1252 for non-UTF-8 bytes.
func DecodeHTML(r io.Reader, hint string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxHTMLBytes))
	if err != nil {
		return "", eris.Wrap(err, "ingest: read html")
	}

	enc, err := resolveEncoding(data, hint)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return string(bytes.TrimPrefix(data, utf8BOM)), nil
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", eris.Wrap(err, "ingest: decode html")
	}
	return string(out), nil
}

// resolveEncoding returns nil when data can be used as UTF-8 as-is.
func resolveEncoding(data []byte, hint string) (encoding.Encoding, error) {
	hint = strings.TrimSpace(hint)
	if hint != "" && !strings.Contains(hint, "/") {
		enc, err := htmlindex.Get(hint)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: unsupported charset %q", hint)
		}
		if name, _ := htmlindex.Name(enc); name == "utf-8" {
			return nil, nil
		}
		return enc, nil
	}

	enc, name, certain := charset.DetermineEncoding(data, hint)
	if name == "utf-8" || (!certain && utf8.Valid(data)) {
		return nil, nil
	}
	return enc, nil
}
