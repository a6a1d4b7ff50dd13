package fusion

import (
	"reflect"
	"testing"
)

func TestExtractGenes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"two_genes", "A{5'}_B{3'}", []string{"A", "B"}},
		{"real_world", "ACSL3{ENST00000357430}:r.1_1134_ETV1{ENST00000430479}:r.1121_3308", []string{"ACSL3", "ETV1"}},
		{"hyphen_and_period", "NKX2-1{NM_003317}_MIR99AHG.2{X}", []string{"NKX2-1", "MIR99AHG.2"}},
		{"underscore_prefix_discarded", "__KMT2A{ENST}", []string{"KMT2A"}},
		{"same_gene_twice", "TTL{a}_TTL{b}", []string{"TTL", "TTL"}},
		{"blank", "   ", nil},
		{"no_braces", "not a fusion", nil},
		{"lowercase_not_matched", "abc{x}", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractGenes(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ExtractGenes(%q)=%v want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestTableCountsExactDescriptions(t *testing.T) {
	tbl := NewTable()

	if got := tbl.Add("A{5'}_B{3'}"); got != 2 {
		t.Fatalf("matched=%d want 2", got)
	}
	// Same description again: counts go to 2, no second entry.
	tbl.Add("A{5'}_B{3'}")
	// A different description mentioning A only.
	tbl.Add("A{5'}_C{3'}")
	// Unparsable line is skipped, not an error.
	if got := tbl.Add("junk"); got != 0 {
		t.Fatalf("matched=%d want 0", got)
	}

	if got := tbl.Count("A", "A{5'}_B{3'}"); got != 2 {
		t.Fatalf("count=%d want 2", got)
	}
	if got := tbl.Count("B", "A{5'}_B{3'}"); got != 2 {
		t.Fatalf("count=%d want 2", got)
	}
	if got := tbl.Count("A", "A{5'}_C{3'}"); got != 1 {
		t.Fatalf("count=%d want 1", got)
	}

	// Invariant: per-gene counts sum to the number of lines mentioning it.
	sum := tbl.Count("A", "A{5'}_B{3'}") + tbl.Count("A", "A{5'}_C{3'}")
	if sum != 3 {
		t.Fatalf("sum of A counts=%d want 3", sum)
	}
}

func TestTablePreservesInsertionOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Add("Z{x}_A{y}")
	tbl.Add("M{x}")
	tbl.Add("Z{x}_A{y}") // re-insertion must not reorder

	if got, want := tbl.Genes(), []string{"Z", "A", "M"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("genes=%v want %v", got, want)
	}
}

func TestRender(t *testing.T) {
	tbl := NewTable()
	tbl.Add("A{5'}_B{3'}")
	tbl.Add("A{5'}_B{3'}")
	tbl.Add("A{x}")

	if got, want := tbl.Render("A"), "A{5'}_B{3'}(2)|A{x}(1)"; got != want {
		t.Fatalf("render=%q want %q", got, want)
	}
	if got := tbl.Render("UNKNOWN"); got != "" {
		t.Fatalf("render of unknown gene=%q want empty", got)
	}
}

func TestRowsAreDeterministic(t *testing.T) {
	build := func() []string {
		tbl := NewTable()
		tbl.Add("B{1}_A{2}")
		tbl.Add("A{9}")
		tbl.Add("B{1}_A{2}")
		var out []string
		for _, r := range tbl.Rows() {
			out = append(out, r["gene"]+"\t"+r["fusion_genes"]+"\t"+r["fusion_id"])
		}
		return out
	}
	a, b := build(), build()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two identical runs diverged:\n%v\n%v", a, b)
	}
	if a[0] != "B\tB{1}_A{2}(2)\t" {
		t.Fatalf("first row=%q", a[0])
	}
}
