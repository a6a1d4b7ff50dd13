package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"dsprep/internal/config"
	"dsprep/internal/metrics"
	"dsprep/internal/metrics/prompush"
	"dsprep/internal/pipeline"

	// register all backends with the storage factory; the job file selects
	// which one (if any) is used.
	_ "dsprep/internal/storage/all"
)

// main is the entry point for the dsprep binary. It loads the job file (or
// builds a single job from flags), optionally initializes a metrics backend,
// and runs the configured jobs.
//
// Two invocation styles are supported:
//
//	dsprep -config configs/jobs/all.json
//	dsprep -job cosmic-fusion CosmicFusionExport.tsv cosmic_fusion.tsv
//	dsprep -job oreganno ORegAnno_Combined_2016.01.19.tsv out/
//
// The second style keeps the historical two-positional contract of the
// per-dataset scripts this tool replaced.
func main() {
	var (
		cfgPath           string
		jobKind           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "", "job file JSON path")
	flag.StringVar(&jobKind, "job", "", "run a single job of this kind (cosmic-fusion, oreganno) with positional <input> <output>")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (pushgateway, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	f, err := loadJobs(cfgPath, jobKind, flag.Args())
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.Validate(f)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		fatalf("configuration is invalid")
	}
	if validate {
		log.Printf("configuration is valid (%d jobs)", len(f.Jobs))
		return
	}

	setupMetrics(metricsBackendFlg, pushGatewayURLFlg, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	start := time.Now()

	if _, err := pipeline.RunAll(ctx, f.Jobs); err != nil {
		log.Fatalf("%v", err)
	}

	if *verbose {
		log.Printf("completed %d jobs in %s", len(f.Jobs), time.Since(start).Truncate(time.Millisecond))
	}
}

// loadJobs builds the job list either from -config or from the single-job
// flag form with positional input/output arguments.
func loadJobs(cfgPath, jobKind string, args []string) (config.File, error) {
	switch {
	case cfgPath != "" && jobKind != "":
		return config.File{}, fmt.Errorf("-config and -job are mutually exclusive")

	case cfgPath != "":
		return config.Load(cfgPath)

	case jobKind != "":
		if len(args) != 2 {
			return config.File{}, fmt.Errorf("-job %s needs exactly two arguments: <input> <output>", jobKind)
		}
		job := config.Job{
			Name:    jobKind,
			Kind:    jobKind,
			Source:  config.Source{Kind: "file", Path: args[0]},
			Options: config.Options{},
		}
		if jobKind == config.KindOreganno {
			job.Output = config.Output{Dir: args[1]}
		} else {
			job.Output = config.Output{Path: args[1]}
		}
		return config.File{Jobs: []config.Job{job}}, nil

	default:
		return config.File{}, fmt.Errorf("either -config or -job is required")
	}
}

// setupMetrics installs the selected metrics backend: flag → env → default.
func setupMetrics(backendName, gwURL string, verbose bool) {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend("dsprep", gwURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=pushgateway url=%s", gwURL)
		metrics.SetBackend(b)

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
