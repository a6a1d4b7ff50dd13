// Package pipeline runs configured dump-preparation jobs end to end: resolve
// the input (downloading it when remote), reshape it into the canonical
// datasource tables, and optionally mirror the written rows into a database.
//
// One parameterized Run replaces the per-dataset one-off scripts this tool
// grew out of, so shared behavior (header validation, output policies,
// logging, counters) cannot drift between datasets again. Each job is
// single-threaded and single-pass internally; RunAll parallelizes across
// jobs only.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"dsprep/internal/config"
	"dsprep/internal/datasource/file"
	"dsprep/internal/datasource/httpds"
	"dsprep/internal/metrics"
)

// Summary reports what one job run did. Counter semantics follow the run
// summary log line; all counts are row-level except CellsScrubbed (cells).
type Summary struct {
	Job     string
	Outputs []string

	Processed         int64 // data lines read from the input
	Written           int64 // rows written across all outputs
	SpeciesDropped    int64 // rows excluded by the species filter
	UnroutableDropped int64 // rows with no matching destination
	UnparsedSkipped   int64 // descriptions with no recognizable gene token
	CellsScrubbed     int64 // cells with embedded delimiters rewritten
	Stored            int64 // rows mirrored into the database
}

// Run executes one configured job and returns its Summary. Input problems
// (unreadable file, missing required columns) are fatal; per-row anomalies
// are counted and logged but never abort the run.
func Run(ctx context.Context, job config.Job) (*Summary, error) {
	path, err := resolveInput(ctx, job)
	if err != nil {
		return nil, err
	}

	s := &Summary{Job: job.Name}

	start := time.Now()
	switch job.Kind {
	case config.KindCosmicFusion:
		err = runFusion(ctx, job, path, s)
	case config.KindOreganno:
		err = runOreganno(ctx, job, path, s)
	default:
		return nil, fmt.Errorf("pipeline: unknown job kind %q", job.Kind)
	}
	metrics.RecordStep(job.Name, "reshape", err, time.Since(start))
	if err != nil {
		return nil, err
	}

	recordRows(s)

	if job.Storage.Kind != "" {
		start = time.Now()
		err = mirror(ctx, job, s)
		metrics.RecordStep(job.Name, "store", err, time.Since(start))
		if err != nil {
			return nil, err
		}
		metrics.RecordRows(job.Name, "stored", s.Stored)
	}

	logSummary(s)
	return s, nil
}

// RunAll executes every job concurrently and returns the summaries in job
// order. The first failing job cancels the rest.
func RunAll(ctx context.Context, jobs []config.Job) ([]*Summary, error) {
	g, ctx := errgroup.WithContext(ctx)
	summaries := make([]*Summary, len(jobs))
	for i, job := range jobs {
		g.Go(func() error {
			s, err := Run(ctx, job)
			if err != nil {
				return fmt.Errorf("job %s: %w", job.Name, err)
			}
			summaries[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// resolveInput turns the job's source into a local file path, downloading
// remote dumps first. Local inputs are probed before the reshape starts so
// a bad path fails with a source error, not mid-pipeline.
func resolveInput(ctx context.Context, job config.Job) (string, error) {
	switch job.Source.Kind {
	case "file", "":
		src := file.NewLocal(job.Source.Path)
		rc, err := src.Open(ctx)
		if err != nil {
			return "", err
		}
		_ = rc.Close()
		return src.Path(), nil

	case "url":
		dir := job.Source.Dir
		if dir == "" {
			dir = "."
		}
		client := httpds.NewClient(httpds.Config{})
		start := time.Now()
		path, err := client.Download(ctx, job.Source.URL, dir)
		metrics.RecordStep(job.Name, "download", err, time.Since(start))
		return path, err

	default:
		return "", fmt.Errorf("pipeline: unknown source kind %q", job.Source.Kind)
	}
}

func recordRows(s *Summary) {
	metrics.RecordRows(s.Job, "processed", s.Processed)
	metrics.RecordRows(s.Job, "written", s.Written)
	metrics.RecordRows(s.Job, "species_dropped", s.SpeciesDropped)
	metrics.RecordRows(s.Job, "unroutable_dropped", s.UnroutableDropped)
	metrics.RecordRows(s.Job, "unparsed_skipped", s.UnparsedSkipped)
	metrics.RecordRows(s.Job, "cells_scrubbed", s.CellsScrubbed)
}

func logSummary(s *Summary) {
	log.Printf("summary: job=%s processed=%d written=%d species_dropped=%d unroutable_dropped=%d unparsed_skipped=%d cells_scrubbed=%d stored=%d outputs=%d",
		s.Job, s.Processed, s.Written, s.SpeciesDropped, s.UnroutableDropped,
		s.UnparsedSkipped, s.CellsScrubbed, s.Stored, len(s.Outputs))
}
