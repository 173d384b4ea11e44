package cite

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/gocoach/internal/locate"
)

// DefaultMaxQuote is the longest quote rendered verbatim; longer quotes are
// cut to three characters less plus an ellipsis marker.
const DefaultMaxQuote = 140

type renderKey struct {
	fileID string
	quote  string
	page   int
}

// Format renders the final user-facing string: the answer unchanged, then a
// numbered Citations section. An empty candidate list returns the answer as
// is. Candidates render in input order; later entries whose (document,
// truncated quote, page) triple repeats an earlier one are dropped, not
// merged. filename resolves document identifiers; it is typically
// (*session.Session).Filename.
func Format(answer string, cands []Candidate, filename func(string) string, maxQuote int) string {
	if len(cands) == 0 {
		return answer
	}
	if maxQuote <= 0 {
		maxQuote = DefaultMaxQuote
	}

	seen := make(map[renderKey]struct{}, len(cands))
	var lines []string
	for _, c := range cands {
		name := c.FileID
		if filename != nil {
			name = filename(c.FileID)
		}
		quote := strings.TrimSpace(c.Quote)
		if quote == "" {
			quote = "See source " + name
		}
		if r := []rune(quote); len(r) > maxQuote {
			quote = string(r[:maxQuote-3]) + "..."
		}

		key := renderKey{fileID: c.FileID, quote: quote, page: c.Page}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		pagePart := "n/a"
		if c.Page != locate.Unknown {
			pagePart = fmt.Sprintf("%d", c.Page)
		}
		lines = append(lines, fmt.Sprintf("[%d] %s (%s, page %s)", len(lines)+1, quote, name, pagePart))
	}

	return answer + "\n\nCitations:\n" + strings.Join(lines, "\n")
}
