package storage

import (
	"context"
	"errors"
	"testing"
)

func feed(rows [][]any) <-chan []any {
	ch := make(chan []any, len(rows))
	for _, r := range rows {
		ch <- r
	}
	close(ch)
	return ch
}

func TestLoadBatches(t *testing.T) {
	var calls [][][]any
	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		cp := make([][]any, len(rows))
		copy(cp, rows)
		calls = append(calls, cp)
		return int64(len(rows)), nil
	}

	in := feed([][]any{{"a"}, {"b"}, {"c"}, {"d"}, {"e"}})
	total, batches, err := LoadBatches(context.Background(), []string{"col"}, in, 2, copyFn)
	if err != nil {
		t.Fatalf("LoadBatches: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if batches != 3 {
		t.Errorf("batches = %d, want 3 (2+2+1)", batches)
	}
	if len(calls) != 3 || len(calls[2]) != 1 {
		t.Errorf("flush pattern = %v", calls)
	}
}

func TestLoadBatchesEmptyInput(t *testing.T) {
	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		t.Fatal("copyFn called for empty input")
		return 0, nil
	}
	total, batches, err := LoadBatches(context.Background(), []string{"col"}, feed(nil), 10, copyFn)
	if err != nil || total != 0 || batches != 0 {
		t.Fatalf("got total=%d batches=%d err=%v, want all zero", total, batches, err)
	}
}

func TestLoadBatchesPropagatesCopyError(t *testing.T) {
	boom := errors.New("boom")
	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		return 0, boom
	}
	_, _, err := LoadBatches(context.Background(), []string{"col"}, feed([][]any{{"a"}, {"b"}}), 1, copyFn)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestLoadBatchesInvalidArgs(t *testing.T) {
	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) { return 0, nil }
	if _, _, err := LoadBatches(context.Background(), nil, feed(nil), 0, copyFn); err == nil {
		t.Error("expected error for batchSize=0")
	}
	if _, _, err := LoadBatches(context.Background(), nil, feed(nil), 1, nil); err == nil {
		t.Error("expected error for nil copyFn")
	}
}

func TestLoadBatchesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch := make(chan []any) // never closed; cancellation must win
	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) { return 0, nil }
	_, _, err := LoadBatches(ctx, []string{"col"}, ch, 2, copyFn)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
