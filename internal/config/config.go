// Package config defines the canonical, JSON-serializable configuration model
// for annotation-dump preparation jobs. It is intentionally small, explicit,
// and dependency-free so that job files can be loaded from disk and passed
// through the program without additional glue code.
//
// Design goals:
//
//  1. Stability: Changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Field names in Go mirror the JSON structure used in job files
//     under configs/jobs/*.json.
//  3. Minimalism: Decoding is performed by the standard library, with a light
//     Options helper for typed access.
//
// Example (trimmed):
//
//	{
//	  "jobs": [
//	    {
//	      "name":   "oreganno",
//	      "kind":   "oreganno",
//	      "source": { "kind": "url", "url": "http://.../ORegAnno_Combined_2016.01.19.tsv", "dir": "downloads" },
//	      "output": { "dir": "out" },
//	      "options": { "species": "Homo sapiens", "build_match": "fold" }
//	    }
//	  ]
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Job kinds understood by the pipeline.
const (
	KindCosmicFusion = "cosmic-fusion"
	KindOreganno     = "oreganno"
)

// File is the top-level object decoded from a job file. A single file may
// describe several jobs; they are run independently.
type File struct {
	Jobs []Job `json:"jobs"`
}

// Job describes one dump-preparation run: where the input comes from, which
// reshaping applies, and where output goes.
type Job struct {
	// Name identifies the job in logs and metrics. Defaults to Kind when empty.
	Name string `json:"name"`

	// Kind selects the reshaping applied to the input. Current values:
	// "cosmic-fusion", "oreganno".
	Kind string `json:"kind"`

	// Source describes where the input dump comes from.
	Source Source `json:"source"`

	// Output describes where reshaped files are written.
	Output Output `json:"output"`

	// Options is a free-form map interpreted per job kind. Typical keys:
	//   description_column (string), species (string), species_match (string),
	//   build_match (string), values_separator (string), cell_policy (string),
	//   progress (bool)
	Options Options `json:"options"`

	// Storage optionally mirrors the written output into a database.
	Storage Storage `json:"storage"`
}

// Source identifies where the input dump lives. Additional kinds can be
// added over time.
type Source struct {
	// Kind selects the source implementation. Current values: "file", "url".
	Kind string `json:"kind"`

	// Path is the local filesystem path for the "file" kind.
	Path string `json:"path"`

	// URL is the remote dump location for the "url" kind.
	URL string `json:"url"`

	// Dir is where the "url" kind stages downloads. Defaults to the current
	// directory when empty.
	Dir string `json:"dir"`
}

// Output describes where a job writes its reshaped files.
type Output struct {
	// Dir is the directory derived output filenames are placed in. Used by
	// jobs that name their own outputs (oreganno's per-build files).
	Dir string `json:"dir"`

	// Path is an explicit output file path. Used by single-output jobs
	// (cosmic-fusion). When both Dir and Path are set, Path wins.
	Path string `json:"path"`
}

// Storage selects an optional database sink used to mirror written records.
type Storage struct {
	// Kind selects the storage implementation. Current values: "postgres",
	// "sqlite". Empty disables the mirror.
	Kind string `json:"kind"`

	DB DBConfig `json:"db"`
}

// DBConfig configures the DB sink shared across backends.
type DBConfig struct {
	// DSN is the connection string (e.g., postgresql://... or a sqlite file
	// path).
	DSN string `json:"dsn"`

	// Table is the destination table name. Defaults to the job name.
	Table string `json:"table"`
}

// Options is a small helper to fetch typed values from arbitrary JSON maps.
// It purposefully performs only minimal type coercion and returns provided
// defaults when a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Useful for single-character settings such as a field
// delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringSlice returns a []string for key when the value is an array of
// strings. Returns nil when the key is missing or the value is not an array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object decodes to a non-nil, empty Options map. This removes the
// need to nil-check Options at call sites.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}

// Load reads and decodes a job file from disk.
func Load(path string) (File, error) {
	var f File
	b, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("config: decode %s: %w", path, err)
	}
	for i := range f.Jobs {
		if f.Jobs[i].Name == "" {
			f.Jobs[i].Name = f.Jobs[i].Kind
		}
		if f.Jobs[i].Options == nil {
			f.Jobs[i].Options = Options{}
		}
	}
	return f, nil
}
