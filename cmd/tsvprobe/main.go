// Command tsvprobe samples the head of a local or remote annotation dump and
// prints its column names with coarse inferred types. It is an onboarding
// aid for new datasources: run it against a dump once to see what a job
// definition needs before writing one.
package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"dsprep/internal/datasource/file"
	"dsprep/internal/datasource/httpds"
	"dsprep/internal/tsv"
)

var (
	flagURL       = flag.String("url", "", "URL of the dump to sample")
	flagPath      = flag.String("path", "", "local path of the dump to sample (alternative to -url)")
	flagBytes     = flag.Int("bytes", 64*1024, "number of bytes to sample from the start of the file")
	flagDelimiter = flag.String("delimiter", "\t", "field delimiter (single character)")
	flagSanitize  = flag.Bool("sanitize", false, "strip diacritics from column names")
	flagTimeout   = flag.Duration("timeout", 30*time.Second, "sample fetch timeout")
)

func main() {
	flag.Parse()

	delim := '\t'
	if *flagDelimiter != "" {
		if r, _ := utf8.DecodeRuneInString(*flagDelimiter); r != utf8.RuneError {
			delim = r
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *flagTimeout)
	defer cancel()

	sample, err := fetchSample(ctx, *flagURL, *flagPath, *flagBytes)
	if err != nil {
		fatalf("%v", err)
	}

	headers, types, rows, err := inspect(sample, delim, *flagSanitize)
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("sampled %d bytes, %d data rows\n\n", len(sample), rows)
	for i, h := range headers {
		fmt.Printf("%3d  %-40s %s\n", i+1, h, types[i])
	}
}

// fetchSample reads up to n bytes from the given source.
func fetchSample(ctx context.Context, url, path string, n int) ([]byte, error) {
	switch {
	case url != "" && path != "":
		return nil, fmt.Errorf("-url and -path are mutually exclusive")
	case url != "":
		return httpds.NewClient(httpds.Config{}).FetchFirstBytes(ctx, url, n)
	case path != "":
		rc, err := file.NewLocal(path).Open(ctx)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(&io.LimitedReader{R: rc, N: int64(n)}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("either -url or -path is required")
	}
}

// inspect parses the sample and returns header names, a coarse type per
// column, and the number of complete data rows seen. The last sampled line
// is discarded as probably truncated unless the sample ends with a newline.
func inspect(sample []byte, delim rune, sanitize bool) ([]string, []string, int, error) {
	complete := sample
	if len(sample) > 0 && sample[len(sample)-1] != '\n' {
		if i := bytes.LastIndexByte(sample, '\n'); i >= 0 {
			complete = sample[:i+1]
		}
	}

	cr := csv.NewReader(bytes.NewReader(complete))
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	raw, err := cr.Read()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("sample has no header line: %w", err)
	}
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if sanitize {
			h = tsv.StripDiacritics(h)
		}
		headers[i] = h
	}

	// Track the narrowest type that fits every non-empty value per column.
	types := make([]string, len(headers))
	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			break // truncated tail or stray quoting; keep what we have
		}
		rows++
		for i := range headers {
			if i >= len(rec) {
				continue
			}
			types[i] = widen(types[i], inferType(rec[i]))
		}
	}
	for i, t := range types {
		if t == "" {
			types[i] = "empty"
		}
	}
	return headers, types, rows, nil
}

// inferType classifies a single value as integer, number, or text.
func inferType(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return "integer"
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return "number"
	}
	return "text"
}

// widen merges the type seen so far with a new observation: text beats
// number beats integer; empty observations never narrow.
func widen(sofar, obs string) string {
	if obs == "" {
		return sofar
	}
	if sofar == "" {
		return obs
	}
	rank := map[string]int{"integer": 0, "number": 1, "text": 2}
	if rank[obs] > rank[sofar] {
		return obs
	}
	return sofar
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
