package preflight

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads per-page text with the pure-Go pdf reader.
type PDFExtractor struct{}

// Pages returns one raw text string per physical page, in order. A page whose
// text cannot be decoded contributes an empty entry rather than being
// skipped, so the result length always equals the physical page count.
func (PDFExtractor) Pages(data []byte) (pages []string, err error) {
	// The reader panics on some malformed inputs; a corrupt upload must not
	// take the process down.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, perr := p.GetPlainText(nil)
		if perr != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
