package tsv

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// CellPolicy decides what happens when a value contains the output delimiter
// or a newline. The upstream dumps declare no quoting or escaping, so the
// canonical tables cannot quote either; the policy is an explicit choice
// instead of inherited silent corruption.
type CellPolicy int

const (
	// PolicyReplace rewrites embedded tabs and newlines to a single space
	// and counts every affected cell. This is the default.
	PolicyReplace CellPolicy = iota

	// PolicyKeep writes values verbatim, reproducing the historical
	// behavior (and its column-corruption risk).
	PolicyKeep
)

var cellScrubber = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

// Writer emits a canonical tab-separated table with a fixed header. The
// header row is written when the writer is created, so a run that produces
// zero data rows still leaves a well-formed empty table behind.
type Writer struct {
	f        *os.File
	bw       *bufio.Writer
	header   Header
	policy   CellPolicy
	scrubbed int64
	rows     int64
	closed   bool
}

// Create opens (and truncates) path and writes the header row immediately.
func Create(path string, header Header, policy CellPolicy) (*Writer, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("tsv: destination %s: header must not be empty", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("tsv: create %s: %w", path, err)
	}
	w := &Writer{f: f, bw: bufio.NewWriterSize(f, 64*1024), header: header, policy: policy}
	if err := w.writeLine(header); err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

// Header returns the fixed output header.
func (w *Writer) Header() Header { return w.header }

// WriteRow writes one record in header order. Columns absent from the record
// are written as empty fields.
func (w *Writer) WriteRow(rec Record) error {
	if w.closed {
		return fmt.Errorf("tsv: write to closed destination %s", w.f.Name())
	}
	fields := make([]string, len(w.header))
	for i, col := range w.header {
		fields[i] = w.cell(rec[col])
	}
	if err := w.writeLine(fields); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows returns the number of data rows written so far.
func (w *Writer) Rows() int64 { return w.rows }

// Scrubbed returns how many cells had embedded delimiters rewritten under
// PolicyReplace.
func (w *Writer) Scrubbed() int64 { return w.scrubbed }

func (w *Writer) cell(v string) string {
	if w.policy == PolicyKeep {
		return v
	}
	if strings.ContainsAny(v, "\t\n\r") {
		w.scrubbed++
		return cellScrubber.Replace(v)
	}
	return v
}

func (w *Writer) writeLine(fields []string) error {
	if _, err := w.bw.WriteString(strings.Join(fields, "\t")); err != nil {
		return fmt.Errorf("tsv: write %s: %w", w.f.Name(), err)
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return fmt.Errorf("tsv: write %s: %w", w.f.Name(), err)
	}
	return nil
}

// Close flushes buffered rows and releases the file. Writes after Close fail.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.bw.Flush(); err != nil {
		_ = w.f.Close()
		return fmt.Errorf("tsv: flush %s: %w", w.f.Name(), err)
	}
	return w.f.Close()
}
