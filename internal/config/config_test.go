package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.json")
	doc := `{
  "jobs": [
    {
      "kind": "oreganno",
      "source": {"kind": "url", "url": "http://example.org/ORegAnno_Combined_2016.01.19.tsv", "dir": "downloads"},
      "output": {"dir": "out"},
      "options": {"species": "Homo sapiens", "build_match": "fold", "progress": true}
    },
    {
      "name": "fusions",
      "kind": "cosmic-fusion",
      "source": {"kind": "file", "path": "CosmicFusionExport.tsv"},
      "output": {"path": "out/cosmic_fusion.tsv"}
    }
  ]
}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(f.Jobs))
	}

	j := f.Jobs[0]
	if j.Name != "oreganno" {
		t.Errorf("unnamed job defaulted to %q, want kind as name", j.Name)
	}
	if got := j.Options.String("species", ""); got != "Homo sapiens" {
		t.Errorf("options species = %q", got)
	}
	if !j.Options.Bool("progress", false) {
		t.Error("options progress = false, want true")
	}

	// Second job omits "options" entirely; Options must still be usable.
	j2 := f.Jobs[1]
	if j2.Options == nil {
		t.Fatal("missing options decoded to nil map")
	}
	if got := j2.Options.String("species", "def"); got != "def" {
		t.Errorf("default lookup on empty options = %q, want def", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadBadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{jobs:"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestOptionsTypedAccess(t *testing.T) {
	o := Options{
		"s":     "hello",
		"b":     true,
		"n":     float64(7), // how encoding/json decodes numbers
		"delim": "|x",
		"cols":  []any{"a", "b", 3},
	}

	if got := o.String("s", "d"); got != "hello" {
		t.Errorf("String = %q", got)
	}
	if got := o.String("missing", "d"); got != "d" {
		t.Errorf("String default = %q", got)
	}
	if !o.Bool("b", false) {
		t.Error("Bool = false")
	}
	if got := o.Int("n", 0); got != 7 {
		t.Errorf("Int = %d", got)
	}
	if got := o.Rune("delim", ','); got != '|' {
		t.Errorf("Rune = %q", got)
	}
	if got := o.Rune("missing", ','); got != ',' {
		t.Errorf("Rune default = %q", got)
	}
	cols := o.StringSlice("cols")
	if len(cols) != 2 || cols[0] != "a" || cols[1] != "b" {
		t.Errorf("StringSlice = %v, want non-strings dropped", cols)
	}
}
