// Package regulatory reformats an ORegAnno combined dump into the per-build
// regulatory-region datasource tables. Each input record is projected to a
// small fixed output row plus one synthesized Values field; records for the
// wrong species are dropped with a diagnostic.
package regulatory

import (
	"strings"

	"dsprep/internal/match"
	"dsprep/internal/tsv"
)

// OutputHeader is the fixed header of the regulatory datasource tables.
var OutputHeader = tsv.Header{"Build", "Chr", "Start", "End", "ID", "Values"}

// DefaultSpecies is the species label records must carry to be kept.
const DefaultSpecies = "Homo sapiens"

// sourceIDColumn is renamed to "ID" on output.
const sourceIDColumn = "ORegAnno_ID"

// valueColumns is the fixed, ordered list of source columns folded into the
// synthesized Values field. Order is part of the output contract.
var valueColumns = []string{
	"Outcome",
	"Type",
	"Gene_Symbol",
	"Gene_ID",
	"Gene_Source",
	"Regulatory_Element_Symbol",
	"Regulatory_Element_ID",
	"Regulatory_Element_Source",
	"dbSNP_ID",
	"PMID",
	"Dataset",
}

// Projector derives one output row per input record.
//
// The species comparison policy defaults to exact matching while the build
// router downstream folds case; that inconsistency is inherited from the
// historical scripts and is surfaced as two independent policies instead of
// being silently unified.
type Projector struct {
	// Species is the required species label; records not matching are
	// dropped. Empty means DefaultSpecies.
	Species string

	// SpeciesPolicy compares the record's Species field to Species.
	SpeciesPolicy match.Policy

	// PairSep separates the key=value pairs inside Values. The historical
	// output concatenates pairs with no separator, so empty is the default
	// and is meaningful.
	PairSep string

	// OnDrop, when set, receives a diagnostic for every dropped record.
	OnDrop func(line int, species string)

	dropped int64
}

// RequiredColumns lists the input columns the projection depends on.
// Validated against the header before any row is processed.
func (p *Projector) RequiredColumns() []string {
	cols := []string{"Species", "Build", "Chr", "Start", "End", sourceIDColumn}
	return append(cols, valueColumns...)
}

func (p *Projector) species() string {
	if p.Species == "" {
		return DefaultSpecies
	}
	return p.Species
}

// Project maps one input record to an output row. ok is false when the
// record fails the species filter; the drop is tallied and reported but
// never fatal.
func (p *Projector) Project(line int, rec tsv.Record) (row tsv.Record, ok bool) {
	if !p.SpeciesPolicy.Equal(rec["Species"], p.species()) {
		p.dropped++
		if p.OnDrop != nil {
			p.OnDrop(line, rec["Species"])
		}
		return nil, false
	}
	return tsv.Record{
		"Build":  rec["Build"],
		"Chr":    rec["Chr"],
		"Start":  rec["Start"],
		"End":    rec["End"],
		"ID":     rec[sourceIDColumn],
		"Values": p.values(rec),
	}, true
}

// Dropped returns the number of records excluded by the species filter.
func (p *Projector) Dropped() int64 { return p.dropped }

// values renders the fixed column list as key=value pairs in list order.
// Values are taken as-is; embedded separators are the writer policy's
// problem, not escaped here.
func (p *Projector) values(rec tsv.Record) string {
	var b strings.Builder
	for i, col := range valueColumns {
		if i > 0 {
			b.WriteString(p.PairSep)
		}
		b.WriteString(col)
		b.WriteByte('=')
		b.WriteString(rec[col])
	}
	return b.String()
}
