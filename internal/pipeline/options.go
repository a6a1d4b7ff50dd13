package pipeline

import (
	"dsprep/internal/config"
	"dsprep/internal/tsv"
)

// cellPolicy maps the job's cell_policy option onto the writer policy.
// Unknown values fall back to the safe default; config.Validate flags them
// up front.
func cellPolicy(job config.Job) tsv.CellPolicy {
	if job.Options.String("cell_policy", "replace") == "keep" {
		return tsv.PolicyKeep
	}
	return tsv.PolicyReplace
}
