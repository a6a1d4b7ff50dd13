// Package match defines the string comparison policies used when filtering
// and routing records.
//
// The inherited reformatting scripts were inconsistent: the species filter
// compared case-sensitively while the build router folded case. Rather than
// silently unifying the semantics, each comparison site carries its own
// explicit Policy so the discrepancy is visible and configurable.
package match

import (
	"fmt"
	"strings"
)

// Policy selects how two labels are compared.
type Policy int

const (
	// Exact compares byte-for-byte.
	Exact Policy = iota
	// Fold compares under ASCII/Unicode simple case folding.
	Fold
)

// Equal reports whether a and b match under the policy.
func (p Policy) Equal(a, b string) bool {
	if p == Fold {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func (p Policy) String() string {
	if p == Fold {
		return "fold"
	}
	return "exact"
}

// Parse converts a config token ("exact" or "fold") into a Policy.
func Parse(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return Exact, nil
	case "fold", "case-insensitive":
		return Fold, nil
	default:
		return Exact, fmt.Errorf("unknown match policy %q (want exact or fold)", s)
	}
}
