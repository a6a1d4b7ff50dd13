// Package progress provides a coarse percent-complete sink for long file
// passes. Reporting is a side effect on the sink, not part of the data
// contract; transforms work identically with the no-op sink.
package progress

import "log"

// Sink receives line-count ticks during a pass over an input file.
type Sink interface {
	// Tick records that line (1-based data line index) has been consumed.
	Tick(line int)
	// Done marks the pass complete.
	Done()
}

// Nop discards all progress signals. Used in tests and quiet runs.
type Nop struct{}

func (Nop) Tick(int) {}
func (Nop) Done()    {}

// logSink emits a log line roughly every percent of the total line count.
type logSink struct {
	label string
	total int
	step  int
	last  int
	emit  func(format string, args ...any)
}

// NewLog returns a sink that logs "<label>: N% complete" approximately every
// 1% of totalLines. A non-positive total disables percentage reporting.
func NewLog(label string, totalLines int) Sink {
	return newLog(label, totalLines, log.Printf)
}

// newLog is the injectable constructor used by tests.
func newLog(label string, totalLines int, emit func(string, ...any)) Sink {
	if totalLines <= 0 {
		return Nop{}
	}
	step := totalLines / 100
	if step < 1 {
		step = 1
	}
	return &logSink{label: label, total: totalLines, step: step, emit: emit}
}

func (s *logSink) Tick(line int) {
	if line-s.last < s.step {
		return
	}
	s.last = line
	s.emit("%s: %.0f%% complete", s.label, 100*float64(line)/float64(s.total))
}

func (s *logSink) Done() {
	s.emit("%s: done (%d lines)", s.label, s.total)
}
