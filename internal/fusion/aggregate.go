// Package fusion builds the fusion-gene datasource table from a COSMIC
// translocation export. Free-text fusion descriptions are grouped by every
// gene token they mention, counting repeats, and each gene's descriptions
// are rendered as one compact multi-valued summary.
package fusion

import (
	"fmt"
	"regexp"
	"strings"

	"dsprep/internal/tsv"
)

// DefaultDescriptionColumn is the COSMIC export column holding the fusion
// description, e.g. "ACSL3{ENST00000357430}:r.1_1134_ETV1{...}:r.1121_3308".
const DefaultDescriptionColumn = "Translocation Name"

// OutputHeader is the fixed header of the fusion-gene datasource table.
// fusion_id is reserved for a stable identifier and is currently always
// empty.
var OutputHeader = tsv.Header{"gene", "fusion_genes", "fusion_id"}

// genePattern matches gene tokens in a fusion description: an uppercase
// alphanumeric symbol (hyphens and periods allowed) directly before an
// opening brace, with any leading underscore-joined segments discarded.
var genePattern = regexp.MustCompile(`_*([A-Z0-9.-]+)\{`)

// ExtractGenes returns every gene token mentioned in description, in match
// order. A token mentioned twice is returned twice; zero matches yields nil
// (blank or unparsable descriptions are not an error).
func ExtractGenes(description string) []string {
	if strings.TrimSpace(description) == "" {
		return nil
	}
	ms := genePattern.FindAllStringSubmatch(description, -1)
	if len(ms) == 0 {
		return nil
	}
	genes := make([]string, 0, len(ms))
	for _, m := range ms {
		genes = append(genes, m[1])
	}
	return genes
}

// Table is the insertion-ordered aggregation of descriptions by gene. It is
// exclusively owned by one pipeline pass: built up record by record and
// drained exactly once at the end, in first-seen gene order.
type Table struct {
	genes  []string
	byGene map[string]*geneEntry
}

type geneEntry struct {
	order  []string
	counts map[string]int
}

// NewTable returns an empty aggregation table.
func NewTable() *Table {
	return &Table{byGene: make(map[string]*geneEntry)}
}

// Add extracts every gene token from description and increments that exact
// description's count under each of them. It returns the number of tokens
// matched; zero means the record was skipped. First-occurrence order is
// preserved for both genes and per-gene descriptions, and re-insertion never
// reorders existing entries.
func (t *Table) Add(description string) int {
	genes := ExtractGenes(description)
	for _, g := range genes {
		e, ok := t.byGene[g]
		if !ok {
			e = &geneEntry{counts: make(map[string]int)}
			t.byGene[g] = e
			t.genes = append(t.genes, g)
		}
		if _, seen := e.counts[description]; !seen {
			e.order = append(e.order, description)
		}
		e.counts[description]++
	}
	return len(genes)
}

// Genes returns the aggregation keys in first-seen order.
func (t *Table) Genes() []string { return t.genes }

// Count returns the occurrence count recorded for description under gene.
func (t *Table) Count(gene, description string) int {
	e, ok := t.byGene[gene]
	if !ok {
		return 0
	}
	return e.counts[description]
}

// Render returns gene's summary: each description as "description(count)",
// joined by "|" in description insertion order.
func (t *Table) Render(gene string) string {
	e, ok := t.byGene[gene]
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(e.order))
	for _, d := range e.order {
		parts = append(parts, fmt.Sprintf("%s(%d)", d, e.counts[d]))
	}
	return strings.Join(parts, "|")
}

// Rows drains the table into output rows, one per gene in insertion order.
func (t *Table) Rows() []tsv.Record {
	rows := make([]tsv.Record, 0, len(t.genes))
	for _, g := range t.genes {
		rows = append(rows, tsv.Record{
			"gene":         g,
			"fusion_genes": t.Render(g),
			"fusion_id":    "",
		})
	}
	return rows
}
