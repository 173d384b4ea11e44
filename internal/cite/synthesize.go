package cite

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hyperifyio/gocoach/internal/locate"
	"github.com/hyperifyio/gocoach/internal/probe"
	"github.com/hyperifyio/gocoach/internal/session"
)

// quoteRe matches the first span wrapped in curly or straight double quotes.
var quoteRe = regexp.MustCompile(`“([^”]+)”|"([^"]+)"`)

// minQuoteRunes is the shortest quoted span worth attributing.
const minQuoteRunes = 12

// QuoteFromAnswer extracts the first quoted span from an answer. Spans under
// twelve characters after trimming are ignored: they are too short to locate.
func QuoteFromAnswer(answer string) (string, bool) {
	m := quoteRe.FindStringSubmatch(answer)
	if m == nil {
		return "", false
	}
	q := m[1]
	if q == "" {
		q = m[2]
	}
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < minQuoteRunes {
		return "", false
	}
	return q, true
}

// Synthesize builds a citation when the reasoning service supplied none but
// the answer still quotes the source. The quoted span is attributed to the
// session's documents most-recently-uploaded first, since the service is most
// likely answering about the latest upload. When no document yields a page
// the most recent document is still cited with an unknown page: partial
// attribution beats none. No documents or no quote means no citation.
func Synthesize(answer string, docs []*session.Document, m *locate.Matcher, window int) (Candidate, bool) {
	quote, ok := QuoteFromAnswer(answer)
	if !ok || len(docs) == 0 {
		return Candidate{}, false
	}
	probes := probe.Set(quote, window)
	for i := len(docs) - 1; i >= 0; i-- {
		if page := m.Locate(docs[i].Pages, probes); page != locate.Unknown {
			return Candidate{FileID: docs[i].ID, Quote: quote, Page: page}, true
		}
	}
	latest := docs[len(docs)-1]
	return Candidate{FileID: latest.ID, Quote: quote, Page: locate.Unknown}, true
}
