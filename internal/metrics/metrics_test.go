package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	mu sync.Mutex

	counters   []counterCall
	durations  []durationCall
	flushCount int
}

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type durationCall struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters = append(f.counters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveDuration(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.durations = append(f.durations, durationCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCount++
	return nil
}

func TestRecordStepSuccessAndFailure(t *testing.T) {
	orig := backend
	defer func() { backend = orig }()

	fb := &fakeBackend{}
	backend = fb

	RecordStep("oreganno", "reshape", nil, 2*time.Second)
	RecordStep("oreganno", "store", errors.New("boom"), 1500*time.Millisecond)

	if len(fb.counters) != 2 || len(fb.durations) != 2 {
		t.Fatalf("got %d counters / %d durations, want 2 / 2", len(fb.counters), len(fb.durations))
	}

	c0 := fb.counters[0]
	if c0.name != "dsprep_step_total" || c0.delta != 1 {
		t.Fatalf("counter[0] = %#v", c0)
	}
	if c0.labels["step"] != "reshape" || c0.labels["status"] != "success" {
		t.Fatalf("counter[0] labels = %v", c0.labels)
	}

	d0 := fb.durations[0]
	if d0.name != "dsprep_step_duration_seconds" {
		t.Fatalf("duration[0].name = %q", d0.name)
	}
	if d0.value < 1.999 || d0.value > 2.001 {
		t.Fatalf("duration[0].value = %v, want ~2.0", d0.value)
	}

	if fb.counters[1].labels["status"] != "failure" {
		t.Fatalf("counter[1] status = %q, want failure", fb.counters[1].labels["status"])
	}
}

func TestRecordRows(t *testing.T) {
	orig := backend
	defer func() { backend = orig }()

	fb := &fakeBackend{}
	backend = fb

	RecordRows("oreganno", "processed", 100)
	RecordRows("oreganno", "unroutable_dropped", 0) // ignored
	RecordRows("fusions", "written", 7)

	if len(fb.counters) != 2 {
		t.Fatalf("got %d counter calls, want 2 (zero delta dropped)", len(fb.counters))
	}
	c0 := fb.counters[0]
	if c0.name != "dsprep_rows_total" || c0.delta != 100 {
		t.Fatalf("counter[0] = %#v", c0)
	}
	if c0.labels["job"] != "oreganno" || c0.labels["kind"] != "processed" {
		t.Fatalf("counter[0] labels = %v", c0.labels)
	}
	c1 := fb.counters[1]
	if c1.labels["job"] != "fusions" || c1.labels["kind"] != "written" || c1.delta != 7 {
		t.Fatalf("counter[1] = %#v", c1)
	}
}

func TestRecordBatches(t *testing.T) {
	orig := backend
	defer func() { backend = orig }()

	fb := &fakeBackend{}
	backend = fb

	RecordBatches("oreganno", 3)
	RecordBatches("oreganno", -1) // ignored

	if len(fb.counters) != 1 {
		t.Fatalf("got %d counter calls, want 1", len(fb.counters))
	}
	if fb.counters[0].name != "dsprep_batches_total" || fb.counters[0].delta != 3 {
		t.Fatalf("counter[0] = %#v", fb.counters[0])
	}
}

func TestSetBackendAndFlush(t *testing.T) {
	orig := backend
	defer func() { backend = orig }()

	fb := &fakeBackend{}
	SetBackend(fb)

	if backend != Backend(fb) {
		t.Fatal("SetBackend did not replace global backend")
	}
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if fb.flushCount != 1 {
		t.Fatalf("flushCount = %d, want 1", fb.flushCount)
	}

	SetBackend(nil)
	if backend != Backend(fb) {
		t.Fatal("SetBackend(nil) should not change backend")
	}
}
