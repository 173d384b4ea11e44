// Package cite owns the citation pipeline around the page locator: parsing
// the reasoning service's raw annotations, synthesizing a citation from the
// answer text when the service returned none, and rendering the final
// citation list.
package cite

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gocoach/internal/locate"
)

// Candidate is a (document, quote, page) tuple pending formatting. Page is
// locate.Unknown until resolved. Candidates pass through the same locator and
// formatter regardless of whether the service or the synthesizer produced
// them.
type Candidate struct {
	FileID string
	Quote  string
	Page   int
}

// ParseAnnotation normalizes one raw annotation value from the reasoning
// service into a Candidate. The annotation shape has drifted across service
// versions, so everything is treated as loosely-typed maps; anything that
// does not carry a file citation reports ok=false and is dropped at this one
// boundary instead of being special-cased downstream.
func ParseAnnotation(v any) (Candidate, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Candidate{}, false
	}
	if t, _ := m["type"].(string); t != "file_citation" {
		return Candidate{}, false
	}
	fc, ok := m["file_citation"].(map[string]any)
	if !ok {
		return Candidate{}, false
	}
	fileID, _ := fc["file_id"].(string)
	if fileID == "" {
		// Some versions hoist the file id to the top level.
		fileID, _ = m["file_id"].(string)
	}
	if fileID == "" {
		return Candidate{}, false
	}
	quote, _ := fc["quote"].(string)
	return Candidate{
		FileID: fileID,
		Quote:  strings.TrimSpace(quote),
		Page:   locate.Unknown,
	}, true
}

// ParseAnnotations filters a raw annotation list down to usable candidates,
// in input order. Malformed entries are logged and dropped.
func ParseAnnotations(raw []any) []Candidate {
	var out []Candidate
	for _, v := range raw {
		c, ok := ParseAnnotation(v)
		if !ok {
			log.Debug().Interface("annotation", v).Msg("dropping malformed annotation")
			continue
		}
		out = append(out, c)
	}
	return out
}
