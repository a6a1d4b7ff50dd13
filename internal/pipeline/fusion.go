package pipeline

import (
	"context"
	"io"
	"log"
	"path/filepath"

	"dsprep/internal/config"
	"dsprep/internal/fusion"
	"dsprep/internal/progress"
	"dsprep/internal/tsv"
)

// runFusion aggregates a COSMIC translocation export into the fusion-gene
// table. The whole aggregation lives in memory (the gene key space is small
// even for full exports); the input itself is still streamed.
func runFusion(ctx context.Context, job config.Job, path string, s *Summary) error {
	descCol := job.Options.String("description_column", fusion.DefaultDescriptionColumn)
	ropt := tsv.ReaderOptions{
		Comma:          job.Options.Rune("delimiter", '\t'),
		SanitizeHeader: job.Options.Bool("sanitize_header", false),
	}

	sink := progress.Sink(progress.Nop{})
	if job.Options.Bool("progress", true) {
		// Cheap counting pre-pass so progress can report percentages. The
		// data pass below uses a fresh reader.
		total, err := tsv.CountLines(path)
		if err != nil {
			return err
		}
		sink = progress.NewLog(job.Name, total-1) // minus header
	}

	r, err := tsv.Open(path, ropt)
	if err != nil {
		return err
	}
	defer r.Close()
	if err := r.Header().Require(descCol); err != nil {
		return err
	}

	table := fusion.NewTable()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		s.Processed++
		if table.Add(rec[descCol]) == 0 {
			s.UnparsedSkipped++
		}
		sink.Tick(r.Line() - 1) // data-line index, header excluded
	}
	sink.Done()

	out := job.Output.Path
	if out == "" {
		out = filepath.Join(job.Output.Dir, "cosmic_fusion.tsv")
	}
	w, err := tsv.Create(out, fusion.OutputHeader, cellPolicy(job))
	if err != nil {
		return err
	}
	for _, row := range table.Rows() {
		if err := w.WriteRow(row); err != nil {
			_ = w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	s.Written = w.Rows()
	s.CellsScrubbed = w.Scrubbed()
	s.Outputs = append(s.Outputs, out)
	log.Printf("fusion: job=%s genes=%d descriptions_skipped=%d out=%s",
		job.Name, len(table.Genes()), s.UnparsedSkipped, out)
	return nil
}
