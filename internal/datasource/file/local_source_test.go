package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalOpen(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		prepare   func(t *testing.T) string
		makeCtx   func() context.Context
		wantErrIs error
		wantBody  string
	}{
		{
			name: "success_reads_content",
			prepare: func(t *testing.T) string {
				t.Helper()
				p := filepath.Join(t.TempDir(), "dump.tsv")
				if err := os.WriteFile(p, []byte("Build\tChr\nhg19\t1\n"), 0o644); err != nil {
					t.Fatalf("write: %v", err)
				}
				return p
			},
			makeCtx:  context.Background,
			wantBody: "Build\tChr\nhg19\t1\n",
		},
		{
			name: "missing_file_wraps_not_exist",
			prepare: func(t *testing.T) string {
				t.Helper()
				return filepath.Join(t.TempDir(), "missing.tsv")
			},
			makeCtx:   context.Background,
			wantErrIs: os.ErrNotExist,
		},
		{
			name: "canceled_context_short_circuits",
			prepare: func(t *testing.T) string {
				t.Helper()
				p := filepath.Join(t.TempDir(), "dump.tsv")
				if err := os.WriteFile(p, []byte("ignored"), 0o644); err != nil {
					t.Fatalf("write: %v", err)
				}
				return p
			},
			makeCtx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErrIs: context.Canceled,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			src := NewLocal(tc.prepare(t))
			rc, err := src.Open(tc.makeCtx())
			if tc.wantErrIs != nil {
				if !errors.Is(err, tc.wantErrIs) {
					t.Fatalf("err=%v want errors.Is %v", err, tc.wantErrIs)
				}
				return
			}
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer rc.Close()
			b, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(b) != tc.wantBody {
				t.Fatalf("body=%q want=%q", b, tc.wantBody)
			}
		})
	}
}
