package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"dsprep/internal/config"
	"dsprep/internal/metrics"
	"dsprep/internal/storage"
	"dsprep/internal/tsv"
)

// defaultBatchSize is the mirror insert batch size when the job does not
// set one.
const defaultBatchSize = 1000

// mirror bulk-loads every output file the job just wrote into the
// configured database backend, one table per file. It re-reads the written
// TSV rather than retaining rows in memory, keeping the reshape pass
// storage-free.
func mirror(ctx context.Context, job config.Job, s *Summary) error {
	batchSize := job.Options.Int("batch_size", defaultBatchSize)

	for _, out := range s.Outputs {
		table := mirrorTable(job, out, len(s.Outputs) > 1)
		n, batches, err := mirrorFile(ctx, job, out, table, batchSize)
		if err != nil {
			return fmt.Errorf("mirror %s into %s: %w", out, table, err)
		}
		s.Stored += n
		metrics.RecordBatches(job.Name, batches)
		log.Printf("mirror: job=%s table=%s rows=%d batches=%d", job.Name, table, n, batches)
	}
	return nil
}

// mirrorTable derives the destination table name. Multi-output jobs get one
// table per file, suffixed with the file's distinguishing part (the build).
func mirrorTable(job config.Job, out string, multi bool) string {
	base := job.Storage.DB.Table
	if base == "" {
		base = strings.ReplaceAll(job.Name, "-", "_")
	}
	if !multi {
		return base
	}
	// oreganno_20160119.HG19.tsv -> suffix "hg19"
	name := strings.TrimSuffix(filepath.Base(out), ".tsv")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return base + "_" + strings.ToLower(name[i+1:])
	}
	return base
}

func mirrorFile(ctx context.Context, job config.Job, path, table string, batchSize int) (int64, int64, error) {
	r, err := tsv.Open(path, tsv.ReaderOptions{})
	if err != nil {
		return 0, 0, err
	}
	defer r.Close()
	columns := []string(r.Header())

	cfg := storage.Config{
		Kind:    job.Storage.Kind,
		DSN:     job.Storage.DB.DSN,
		Table:   table,
		Columns: columns,
	}
	repo, closeRepo, err := storage.New(ctx, cfg)
	if err != nil {
		return 0, 0, err
	}
	defer closeRepo()
	if err := storage.EnsureTable(ctx, repo, cfg); err != nil {
		return 0, 0, err
	}

	rows := make(chan []any, batchSize)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(rows)
		for {
			rec, err := r.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			row := make([]any, len(columns))
			for i, c := range columns {
				row[i] = rec[c]
			}
			select {
			case rows <- row:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	var total, batches int64
	g.Go(func() error {
		var err error
		total, batches, err = storage.LoadBatches(ctx, columns, rows, batchSize, repo.CopyFrom)
		return err
	})

	if err := g.Wait(); err != nil {
		return total, batches, err
	}
	return total, batches, nil
}
