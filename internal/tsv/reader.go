package tsv

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strings"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// ReaderOptions configures a Reader. The zero value gives a plain
// tab-separated reader.
type ReaderOptions struct {
	// Comma is the field delimiter. When zero, '\t' is used.
	Comma rune

	// SanitizeHeader applies unicode normalization and diacritic stripping
	// to header names. Useful for dumps whose headers carry mojibake from
	// upstream re-encodings; off by default.
	SanitizeHeader bool
}

// Reader streams records from a delimited file. It is lazy, single-pass and
// forward-only; a fresh Reader must be constructed to re-scan a file.
type Reader struct {
	f      *os.File
	cr     *csv.Reader
	header Header
	// colIx maps header position to source field index. With duplicate
	// header names only the first occurrence survives deduplication.
	colIx  []int
	line   int
	closed bool
}

// Open opens path, reads and validates the header line, and returns a Reader
// positioned at the first data line. It returns a *SchemaError when the file
// cannot be opened or contains no header.
func Open(path string, opt ReaderOptions) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SchemaError{Path: path, Reason: "cannot open input", Err: err}
	}
	fadviseSequential(f)

	comma := opt.Comma
	if comma == 0 {
		comma = '\t'
	}

	cr := csv.NewReader(bufio.NewReaderSize(f, 256*1024))
	cr.Comma = comma
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1 // widths enforced by the record contract below
	cr.ReuseRecord = true

	r := &Reader{f: f, cr: cr}
	if err := r.readHeader(opt); err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) readHeader(opt ReaderOptions) error {
	raw, err := r.cr.Read()
	if err == io.EOF {
		return &SchemaError{Path: r.f.Name(), Reason: "file is empty"}
	}
	if err != nil {
		return &SchemaError{Path: r.f.Name(), Reason: "cannot read header", Err: err}
	}
	r.line = 1

	seen := make(map[string]struct{}, len(raw))
	for i, col := range raw {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if opt.SanitizeHeader {
			c = StripDiacritics(c)
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		r.header = append(r.header, c)
		r.colIx = append(r.colIx, i)
	}
	if len(r.header) == 0 {
		return &SchemaError{Path: r.f.Name(), Reason: "header line has no columns"}
	}
	return nil
}

// Header returns the ordered, deduplicated column names. The returned slice
// must not be mutated.
func (r *Reader) Header() Header { return r.header }

// Line returns the 1-based line number of the most recently read line
// (the header counts as line 1).
func (r *Reader) Line() int { return r.line }

// Next returns the next record, or io.EOF after the last line. Every header
// column is present as a key in the returned record; missing trailing fields
// map to the empty string and fields beyond the header are ignored.
func (r *Reader) Next() (Record, error) {
	if r.closed {
		return nil, io.EOF
	}
	raw, err := r.cr.Read()
	if err == io.EOF {
		// End of iteration releases the handle (scoped-resource discipline).
		_ = r.Close()
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	r.line++

	rec := make(Record, len(r.header))
	for i, col := range r.header {
		si := r.colIx[i]
		if si < len(raw) {
			rec[col] = raw[si]
		} else {
			rec[col] = ""
		}
	}
	return rec, nil
}

// Close releases the underlying file handle. It is safe to call more than
// once and after Next has returned io.EOF.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.f.Close()
}

// CountLines counts '\n'-terminated lines in path without parsing fields.
// It is used as a cheap pre-pass to size progress reporting; a final line
// without a trailing newline still counts.
func CountLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &SchemaError{Path: path, Reason: "cannot open input", Err: err}
	}
	defer f.Close()
	fadviseSequential(f)

	br := bufio.NewReaderSize(f, 256*1024)
	buf := make([]byte, 256*1024)
	n := 0
	sawTail := false
	for {
		c, err := br.Read(buf)
		if c > 0 {
			n += bytes.Count(buf[:c], []byte{'\n'})
			sawTail = buf[c-1] != '\n'
		}
		if err == io.EOF {
			if sawTail {
				n++
			}
			return n, nil
		}
		if err != nil {
			return n, err
		}
	}
}
