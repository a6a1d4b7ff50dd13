// Package route dispatches output rows across per-category destination
// tables by inspecting a routing field (the genome build). Every destination
// is opened and its header written before the first row arrives, so a
// zero-row run still produces well-formed empty tables.
package route

import (
	"fmt"

	"dsprep/internal/match"
	"dsprep/internal/tsv"
)

// Destination binds a category label to the output path of its table.
type Destination struct {
	Label string
	Path  string
}

// Router owns one open destination table per category and routes each row to
// at most one of them. Lifecycle: Open → Route* → Close; routing after Close
// is an error, and no destination ever receives a row before its header.
type Router struct {
	field   string
	policy  match.Policy
	labels  []string
	writers map[string]*tsv.Writer
	dropped int64
	onDrop  func(line int, value string)
	closed  bool
}

// Open creates all destination tables, writes their headers, and returns a
// ready Router. On any creation failure the already-opened destinations are
// closed and the error returned.
func Open(field string, policy match.Policy, header tsv.Header, cell tsv.CellPolicy, dests []Destination, onDrop func(line int, value string)) (*Router, error) {
	if field == "" {
		return nil, fmt.Errorf("route: routing field must not be empty")
	}
	if len(dests) == 0 {
		return nil, fmt.Errorf("route: at least one destination required")
	}

	r := &Router{
		field:   field,
		policy:  policy,
		writers: make(map[string]*tsv.Writer, len(dests)),
		onDrop:  onDrop,
	}
	for _, d := range dests {
		w, err := tsv.Create(d.Path, header, cell)
		if err != nil {
			_ = r.Close()
			return nil, err
		}
		r.labels = append(r.labels, d.Label)
		r.writers[d.Label] = w
	}
	return r, nil
}

// Route writes row to the destination whose label matches the routing field,
// or drops it with a diagnostic when no category matches. It returns the
// matched label ("" for a drop) and any write error.
func (r *Router) Route(line int, row tsv.Record) (string, error) {
	if r.closed {
		return "", fmt.Errorf("route: row after Close")
	}
	v := row[r.field]
	for _, label := range r.labels {
		if r.policy.Equal(v, label) {
			return label, r.writers[label].WriteRow(row)
		}
	}
	r.dropped++
	if r.onDrop != nil {
		r.onDrop(line, v)
	}
	return "", nil
}

// Dropped returns how many rows matched no category.
func (r *Router) Dropped() int64 { return r.dropped }

// Scrubbed sums the delimiter-scrub counts across all destinations.
func (r *Router) Scrubbed() int64 {
	var n int64
	for _, w := range r.writers {
		n += w.Scrubbed()
	}
	return n
}

// Rows returns the number of data rows written to the labeled destination.
func (r *Router) Rows(label string) int64 {
	w, ok := r.writers[label]
	if !ok {
		return 0
	}
	return w.Rows()
}

// Close flushes and closes every destination. The first error wins but all
// destinations are closed regardless.
func (r *Router) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	var first error
	for _, label := range r.labels {
		if err := r.writers[label].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
