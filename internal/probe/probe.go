package probe

import (
	"strings"
	"unicode/utf8"

	"github.com/hyperifyio/gocoach/internal/normalize"
)

// DefaultWindow is the slice length for head/middle/tail probes.
const DefaultWindow = 90

const (
	// Quotes shorter than this cannot be located reliably; Set returns nil.
	minQuoteRunes = 12
	// Quotes shorter than this are used whole rather than sliced.
	sliceFloorRunes = 30
	// Slices that trim down below this carry too little signal and are dropped.
	minSliceRunes = 20
	// When every slice is dropped, fall back to this many leading characters.
	fallbackRunes = 120
)

// Set derives short, high-signal search anchors from a candidate quoted
// excerpt. Long excerpts rarely survive verbatim across an extraction
// boundary, so rather than searching for the whole excerpt we take windows
// from its head, middle and tail. Any trailing "(page N)" marker is stripped
// first and all probes come out normalized.
//
// A nil return means the excerpt is too short to locate; callers treat that
// as "cannot locate", never as an error.
func Set(quote string, window int) []string {
	if window <= 0 {
		window = DefaultWindow
	}
	q := normalize.Text(normalize.StripPageTag(quote))
	r := []rune(q)
	if len(r) < minQuoteRunes {
		return nil
	}
	if len(r) < sliceFloorRunes {
		return []string{q}
	}

	half := window / 2
	mid := len(r) / 2
	slices := [][]rune{
		r[:min(window, len(r))],
		r[max(0, mid-half):min(len(r), mid+half)],
		r[max(0, len(r)-window):],
	}

	out := make([]string, 0, len(slices))
	seen := make(map[string]struct{}, len(slices))
	for _, s := range slices {
		p := strings.TrimSpace(string(s))
		if utf8.RuneCountInString(p) < minSliceRunes {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return []string{strings.TrimSpace(string(r[:min(fallbackRunes, len(r))]))}
	}
	return out
}
