package main

import (
	"testing"
)

func TestInspect(t *testing.T) {
	sample := []byte("Chr\tStart\tScore\tName\nchr1\t100\t0.5\tTAL1\nchr2\t250\t1\tGATA\nchrX\t7\t2.25\t9p21\n")
	headers, types, rows, err := inspect(sample, '\t', false)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if rows != 3 {
		t.Errorf("rows = %d, want 3", rows)
	}
	wantHeaders := []string{"Chr", "Start", "Score", "Name"}
	wantTypes := []string{"text", "integer", "number", "text"}
	for i := range wantHeaders {
		if headers[i] != wantHeaders[i] {
			t.Errorf("header[%d] = %q, want %q", i, headers[i], wantHeaders[i])
		}
		if types[i] != wantTypes[i] {
			t.Errorf("type[%d] (%s) = %q, want %q", i, headers[i], types[i], wantTypes[i])
		}
	}
}

func TestInspectDropsTruncatedTail(t *testing.T) {
	sample := []byte("A\tB\n1\t2\n3\t4") // no trailing newline: last line may be cut
	_, _, rows, err := inspect(sample, '\t', false)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if rows != 1 {
		t.Errorf("rows = %d, want 1 (truncated tail discarded)", rows)
	}
}

func TestInspectSanitizesHeaders(t *testing.T) {
	sample := []byte("Kód\tHodnota\n1\t2\n")
	headers, _, _, err := inspect(sample, '\t', true)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if headers[0] != "Kod" {
		t.Errorf("header[0] = %q, want Kod", headers[0])
	}
}

func TestInferType(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"42", "integer"},
		{"-7", "integer"},
		{"0.5", "number"},
		{"1e6", "number"},
		{"chr1", "text"},
		{"", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := inferType(tt.in); got != tt.want {
			t.Errorf("inferType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWiden(t *testing.T) {
	tests := []struct {
		sofar, obs, want string
	}{
		{"", "integer", "integer"},
		{"integer", "", "integer"},
		{"integer", "number", "number"},
		{"number", "integer", "number"},
		{"number", "text", "text"},
		{"text", "integer", "text"},
	}
	for _, tt := range tests {
		if got := widen(tt.sofar, tt.obs); got != tt.want {
			t.Errorf("widen(%q, %q) = %q, want %q", tt.sofar, tt.obs, got, tt.want)
		}
	}
}
