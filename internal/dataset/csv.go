package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// CSVOptions control CSV loading.
type CSVOptions struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune

	// Charset names the source encoding when the input is not UTF-8,
	// e.g. "latin1" or "windows-1250". Empty means the bytes are used as-is.
	Charset string
}

// LoadCSV reads a delimited file with a header row into a Dataset.
//
// Parsing is lenient by design: lazy quotes are accepted and records whose
// field count disagrees with the header are skipped rather than failing the
// load. Header names and values are whitespace-trimmed; duplicate header
// names get a ".2", ".3", ... suffix so no column is lost.
func LoadCSV(r io.Reader, opt CSVOptions) (*Dataset, error) {
	comma := opt.Comma
	if comma == 0 {
		comma = ','
	}

	if opt.Charset != "" {
		enc, err := charsetEncoding(opt.Charset)
		if err != nil {
			return nil, err
		}
		r = transform.NewReader(r, enc.NewDecoder())
	}

	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1 // validated manually; bad rows are skipped
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return New(nil), nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header = dedupeNames(header)

	d := New(header)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		if len(rec) != len(header) {
			continue
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		d.AppendRow(rec)
	}
	return d, nil
}

// charsetEncoding maps common charset labels onto x/text encodings. The set
// is intentionally small: these are the encodings that have shown up in the
// datasets this tool gets pointed at.
func charsetEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "iso-8859-2", "latin2":
		return charmap.ISO8859_2, nil
	case "windows-1250", "cp1250":
		return charmap.Windows1250, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
}
