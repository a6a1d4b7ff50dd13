// Package tsv implements a streaming reader and writer for the delimited
// dump files this project ingests and the canonical tables it emits.
//
// The reader is header-validated: the first line of a file defines the
// ordered set of column names, and every record yielded afterwards maps
// exactly those names to string values. It never buffers the whole file and
// can handle very large dumps safely. The writer owns a fixed, pre-declared
// header which is written eagerly at open time, so even a zero-row run
// produces a well-formed table.
package tsv

import "fmt"

// Record maps a column name to the raw string value of one data line.
// Records are ephemeral: they are created per line and handed to the
// transformation stage, never retained in bulk.
type Record map[string]string

// Header is the ordered, deduplicated sequence of column names read from the
// first line of a file (or declared for an output table). It is immutable
// for the lifetime of a reader or writer.
type Header []string

// Has reports whether the header contains the given column name.
func (h Header) Has(col string) bool {
	for _, c := range h {
		if c == col {
			return true
		}
	}
	return false
}

// Require verifies that every listed column is present in the header and
// returns a *RequiredColumnError naming the first missing one. Required
// columns are transform-specific, so this check belongs to the caller, not
// to reader construction.
func (h Header) Require(cols ...string) error {
	for _, c := range cols {
		if !h.Has(c) {
			return &RequiredColumnError{Column: c}
		}
	}
	return nil
}

// SchemaError indicates that an input file is unreadable or empty. It is
// fatal and aborts the run before any output is produced.
type SchemaError struct {
	Path   string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema: %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// RequiredColumnError indicates that a column a transform depends on is
// absent from the input header. It is fatal and aborts before any row is
// processed.
type RequiredColumnError struct {
	Column string
}

func (e *RequiredColumnError) Error() string {
	return fmt.Sprintf("required column %q not found in input header", e.Column)
}
