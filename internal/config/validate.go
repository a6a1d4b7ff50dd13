// Package config provides configuration models and helpers for dump
// preparation jobs.
//
// This file adds a lightweight linter/validator for File values. It performs
// static checks over a decoded File and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding.
//
// Path is a dotted path into the config (e.g. "jobs[0].source.kind").
// Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation / linting of a decoded File.
//
// It does not mutate the file. Callers may decide whether to treat warnings
// as fatal or not.
func Validate(f File) []Issue {
	var issues []Issue

	if len(f.Jobs) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "jobs",
			Message:  "no jobs configured; nothing to run",
		})
		return issues
	}

	seen := map[string]int{}
	for i, j := range f.Jobs {
		prefix := fmt.Sprintf("jobs[%d]", i)
		issues = append(issues, validateJob(prefix, j)...)
		if j.Name != "" {
			if prev, dup := seen[j.Name]; dup {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     prefix + ".name",
					Message:  fmt.Sprintf("duplicate job name %q (also jobs[%d]); logs and metrics will be ambiguous", j.Name, prev),
				})
			} else {
				seen[j.Name] = i
			}
		}
	}

	return issues
}

func validateJob(prefix string, j Job) []Issue {
	var issues []Issue

	if strings.TrimSpace(j.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     prefix + ".kind",
			Message:  "kind must not be empty",
		})
	} else if j.Kind != KindCosmicFusion && j.Kind != KindOreganno {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     prefix + ".kind",
			Message:  fmt.Sprintf("unknown job kind %q; valid kinds are %q and %q", j.Kind, KindCosmicFusion, KindOreganno),
		})
	}

	issues = append(issues, validateSource(prefix+".source", j.Source)...)
	issues = append(issues, validateOutput(prefix+".output", j)...)
	issues = append(issues, validateStorage(prefix+".storage", j.Storage)...)
	issues = append(issues, validateOptions(prefix+".options", j)...)

	return issues
}

func validateSource(prefix string, s Source) []Issue {
	var issues []Issue

	switch s.Kind {
	case "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     prefix + ".kind",
			Message:  "source.kind must not be empty",
		})
	case "file":
		if strings.TrimSpace(s.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     prefix + ".path",
				Message:  "file source requires a non-empty path",
			})
		}
	case "url":
		if strings.TrimSpace(s.URL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     prefix + ".url",
				Message:  "url source requires a non-empty url",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     prefix + ".kind",
			Message:  fmt.Sprintf("unknown source kind %q; ensure a matching implementation exists", s.Kind),
		})
	}

	return issues
}

func validateOutput(prefix string, j Job) []Issue {
	var issues []Issue

	if j.Output.Dir == "" && j.Output.Path == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     prefix,
			Message:  "output requires dir or path",
		})
	}
	if j.Kind == KindOreganno && j.Output.Path != "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     prefix + ".path",
			Message:  "oreganno jobs write one file per build; output.path is ignored, set output.dir",
		})
	}

	return issues
}

func validateStorage(prefix string, s Storage) []Issue {
	var issues []Issue

	if s.Kind == "" {
		return nil // mirror disabled
	}

	known := map[string]struct{}{
		"postgres": {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     prefix + ".kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     prefix + ".db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}

	return issues
}

func validateOptions(prefix string, j Job) []Issue {
	var issues []Issue

	for _, key := range []string{"species_match", "build_match"} {
		v := j.Options.String(key, "")
		if v == "" {
			continue
		}
		switch v {
		case "exact", "fold", "case-insensitive":
		default:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     prefix + "." + key,
				Message:  fmt.Sprintf("invalid match policy %q; valid values are \"exact\" and \"fold\"", v),
			})
		}
	}

	if v := j.Options.String("cell_policy", ""); v != "" && v != "replace" && v != "keep" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     prefix + ".cell_policy",
			Message:  fmt.Sprintf("invalid cell policy %q; valid values are \"replace\" and \"keep\"", v),
		})
	}

	if j.Kind == KindCosmicFusion {
		if j.Options.String("species", "") != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     prefix + ".species",
				Message:  "species only applies to oreganno jobs",
			})
		}
	}

	return issues
}
