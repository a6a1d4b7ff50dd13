package pipeline

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"strings"

	"dsprep/internal/config"
	"dsprep/internal/datasource/httpds"
	"dsprep/internal/match"
	"dsprep/internal/regulatory"
	"dsprep/internal/route"
	"dsprep/internal/tsv"
)

// oregannoPrefix is the upstream dump filename prefix; the remainder carries
// the dataset version used in output filenames.
const oregannoPrefix = "ORegAnno_Combined_"

// buildLabels are the genome builds that get a destination table. Rows for
// any other build are dropped with a diagnostic.
var buildLabels = []string{"hg19", "hg38"}

// runOreganno projects an ORegAnno combined dump into one regulatory-region
// table per genome build. Fully streaming: one input line in, at most one
// output row out.
func runOreganno(ctx context.Context, job config.Job, path string, s *Summary) error {
	ropt := tsv.ReaderOptions{
		Comma:          job.Options.Rune("delimiter", '\t'),
		SanitizeHeader: job.Options.Bool("sanitize_header", false),
	}
	speciesPolicy, err := match.Parse(job.Options.String("species_match", "exact"))
	if err != nil {
		return err
	}
	buildPolicy, err := match.Parse(job.Options.String("build_match", "fold"))
	if err != nil {
		return err
	}

	r, err := tsv.Open(path, ropt)
	if err != nil {
		return err
	}
	defer r.Close()

	proj := &regulatory.Projector{
		Species:       job.Options.String("species", ""),
		SpeciesPolicy: speciesPolicy,
		PairSep:       job.Options.String("values_separator", ""),
		OnDrop: func(line int, species string) {
			log.Printf("oreganno: job=%s line=%d species=%q skipped", job.Name, line, species)
		},
	}
	if err := r.Header().Require(proj.RequiredColumns()...); err != nil {
		return err
	}

	dests := destinations(job.Output.Dir, filepath.Base(path))
	router, err := route.Open("Build", buildPolicy, regulatory.OutputHeader, cellPolicy(job), dests,
		func(line int, build string) {
			log.Printf("oreganno: job=%s line=%d build=%q has no destination, row dropped", job.Name, line, build)
		})
	if err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			_ = router.Close()
			return err
		}
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = router.Close()
			return err
		}
		s.Processed++
		row, ok := proj.Project(r.Line(), rec)
		if !ok {
			continue
		}
		if _, err := router.Route(r.Line(), row); err != nil {
			_ = router.Close()
			return err
		}
	}
	if err := router.Close(); err != nil {
		return err
	}

	s.SpeciesDropped = proj.Dropped()
	s.UnroutableDropped = router.Dropped()
	s.CellsScrubbed = router.Scrubbed()
	for _, d := range dests {
		s.Written += router.Rows(d.Label)
		s.Outputs = append(s.Outputs, d.Path)
		log.Printf("oreganno: job=%s build=%s rows=%d out=%s", job.Name, d.Label, router.Rows(d.Label), d.Path)
	}
	return nil
}

// destinations derives the per-build output paths. The dataset version is
// pulled from the upstream filename when it carries the standard prefix,
// e.g. ORegAnno_Combined_2016.01.19.tsv -> oreganno_20160119.HG19.tsv.
func destinations(dir, inputBase string) []route.Destination {
	stem := "oreganno"
	if strings.HasPrefix(inputBase, oregannoPrefix) {
		if v := httpds.VersionFromFilename(inputBase, oregannoPrefix); v != "" {
			stem += "_" + v
		}
	}
	dests := make([]route.Destination, 0, len(buildLabels))
	for _, label := range buildLabels {
		name := stem + "." + strings.ToUpper(label) + ".tsv"
		dests = append(dests, route.Destination{Label: label, Path: filepath.Join(dir, name)})
	}
	return dests
}
