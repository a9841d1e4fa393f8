package engine

import (
	"strings"

	"golang.org/x/text/cases"
)

// fold trims and case-folds s for case-insensitive comparison.
// A fresh Caser is used per call since Casers must not be shared between goroutines.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func equalFold(a, b string) bool {
	return fold(a) == fold(b)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(fold(haystack), fold(needle))
}

// isSupersetFold reports whether have contains every value of want, ignoring case
func isSupersetFold(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[fold(h)] = struct{}{}
	}
	for _, w := range want {
		if strings.TrimSpace(w) == "" {
			continue
		}
		if _, ok := set[fold(w)]; !ok {
			return false
		}
	}
	return true
}

// FoldSet returns the folded form of every non-blank value. Stores that match role and
// language facets outside the engine compare these keys so they agree with the engine.
func FoldSet(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if k := fold(v); k != "" {
			out = append(out, k)
		}
	}
	return out
}
