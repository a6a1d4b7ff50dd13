package storage

import (
	"context"
	"strings"
	"testing"
)

type fakeRepo struct {
	copied [][]any
	cols   []string
	execed []string
}

func (f *fakeRepo) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	f.cols = columns
	f.copied = append(f.copied, rows...)
	return int64(len(rows)), nil
}

func (f *fakeRepo) Exec(ctx context.Context, sql string) error {
	f.execed = append(f.execed, sql)
	return nil
}

func TestRegisterAndNew(t *testing.T) {
	fr := &fakeRepo{}
	Register("fake", func(ctx context.Context, cfg Config) (Repository, func(), error) {
		return fr, func() {}, nil
	})

	repo, closeFn, err := New(context.Background(), Config{Kind: "fake", Table: "t"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closeFn()
	if repo != Repository(fr) {
		t.Fatal("New returned a different repository")
	}

	found := false
	for _, k := range Kinds() {
		if k == "fake" {
			found = true
		}
	}
	if !found {
		t.Errorf("Kinds() = %v, missing fake", Kinds())
	}
}

func TestNewUnknownKind(t *testing.T) {
	if _, _, err := New(context.Background(), Config{Kind: "no-such-backend"}); err == nil {
		t.Fatal("expected error for unregistered kind")
	}
}

func TestCreateTableSQL(t *testing.T) {
	sql, err := CreateTableSQL("oreganno", []string{"Build", "Chr", "Values"})
	if err != nil {
		t.Fatalf("CreateTableSQL: %v", err)
	}
	want := `CREATE TABLE IF NOT EXISTS "oreganno" ("Build" TEXT, "Chr" TEXT, "Values" TEXT)`
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}

	if _, err := CreateTableSQL("", []string{"a"}); err == nil {
		t.Error("expected error for empty table")
	}
	if _, err := CreateTableSQL("t", nil); err == nil {
		t.Error("expected error for no columns")
	}
}

func TestEnsureTable(t *testing.T) {
	fr := &fakeRepo{}
	cfg := Config{Table: "genes", Columns: []string{"gene", "fusion_genes"}}
	if err := EnsureTable(context.Background(), fr, cfg); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	if len(fr.execed) != 1 || !strings.HasPrefix(fr.execed[0], "CREATE TABLE IF NOT EXISTS") {
		t.Errorf("execed = %v", fr.execed)
	}
}
