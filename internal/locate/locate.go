package locate

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Unknown is returned when no page can be attributed with enough confidence.
// Page numbers are 1-based, so zero is never a valid page.
const Unknown = 0

// DefaultThreshold is the fuzzy acceptance floor. An incorrect page citation
// is worse than no citation, so the floor sits well above chance.
const DefaultThreshold = 0.82

// Matcher attributes a probe set to a page of a document. Matching runs two
// fixed passes in order: exact substring first, then fuzzy similarity. The
// same composition serves every caller; there is no per-caller variation.
type Matcher struct {
	// Threshold is the inclusive fuzzy acceptance floor. Zero means
	// DefaultThreshold.
	Threshold float64
}

// Locate returns the 1-based page whose normalized text matches the probe
// set, or Unknown. Pages and probes must already be normalized. Ties resolve
// to the earliest page and the earliest-listed probe: when content repeats,
// the earlier occurrence is the more likely true source.
func (m *Matcher) Locate(pages []string, probes []string) int {
	if len(pages) == 0 || len(probes) == 0 {
		return Unknown
	}
	if p := exactPage(pages, probes); p != Unknown {
		return p
	}
	return m.fuzzyPage(pages, probes)
}

func exactPage(pages []string, probes []string) int {
	for i, page := range pages {
		for _, probe := range probes {
			if probe != "" && strings.Contains(page, probe) {
				return i + 1
			}
		}
	}
	return Unknown
}

// fuzzyPage scores every (page, probe) pair with a symmetric matched-character
// ratio and keeps the single best page. The comparison is strict, so the
// first page to reach the best ratio wins; the acceptance check against the
// threshold is inclusive.
func (m *Matcher) fuzzyPage(pages []string, probes []string) int {
	threshold := m.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	bestPage, bestRatio := Unknown, 0.0
	for i, page := range pages {
		pageChars := strings.Split(page, "")
		for _, probe := range probes {
			sm := difflib.NewMatcher(strings.Split(probe, ""), pageChars)
			if r := sm.QuickRatio(); r > bestRatio {
				bestRatio, bestPage = r, i+1
			}
		}
	}
	if bestRatio >= threshold {
		return bestPage
	}
	return Unknown
}
