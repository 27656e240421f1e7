package emitter

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/agentstation/coreoffset/pkg/errors"
)

// CollationMode selects how the array listing is ordered.
type CollationMode string

// Collation modes.
const (
	// CollationStandard orders names the way a Finder listing does:
	// digit runs compare numerically and case is ignored.
	CollationStandard CollationMode = "standard"
	// CollationLexical orders names by their bytes.
	CollationLexical CollationMode = "lexical"
)

// String returns the string representation of a collation mode.
func (m CollationMode) String() string {
	return string(m)
}

// Comparator orders model names. It returns a negative number when a
// sorts before b, zero when they are equal and a positive number otherwise.
type Comparator func(a, b string) int

// Standard returns a locale-aware comparator with numeric digit runs and
// case folding. An unparseable locale falls back to the root collation.
func Standard(locale string) Comparator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	c := collate.New(tag, collate.Numeric, collate.IgnoreCase)
	return func(a, b string) int {
		if r := c.CompareString(a, b); r != 0 {
			return r
		}
		// Keep the order total for names the collator treats as equal.
		return strings.Compare(a, b)
	}
}

// Lexical compares names byte by byte.
func Lexical() Comparator {
	return cmp.Compare[string]
}

// NewComparator returns the comparator for a collation mode.
func NewComparator(mode CollationMode, locale string) (Comparator, error) {
	switch mode {
	case CollationStandard, "":
		return Standard(locale), nil
	case CollationLexical:
		return Lexical(), nil
	default:
		return nil, errors.NewValidationError("collation.mode", mode,
			"must be one of: standard, lexical")
	}
}

// Sort returns a sorted copy of names.
func (c Comparator) Sort(names []string) []string {
	out := slices.Clone(names)
	slices.SortFunc(out, c)
	return out
}
