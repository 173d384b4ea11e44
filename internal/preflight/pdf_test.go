package preflight

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

func buildPDF(t *testing.T, pageTexts []string) []byte {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 12)
	for _, text := range pageTexts {
		doc.AddPage()
		if text != "" {
			doc.Cell(0, 10, text)
		}
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	return buf.Bytes()
}

func TestPDFExtractor_PerPageText(t *testing.T) {
	data := buildPDF(t, []string{
		"The fund rebalances quarterly",
		"Withdrawals settle in two days",
	})
	pages, err := PDFExtractor{}.Pages(data)
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if !strings.Contains(strings.ToLower(pages[0]), "rebalances") {
		t.Fatalf("page 1 text missing content: %q", pages[0])
	}
	if !strings.Contains(strings.ToLower(pages[1]), "withdrawals") {
		t.Fatalf("page 2 text missing content: %q", pages[1])
	}
}

func TestPDFExtractor_GarbageIsAnError(t *testing.T) {
	data := bytes.Repeat([]byte("definitely not a pdf. "), 100)
	if _, err := (PDFExtractor{}).Pages(data); err == nil {
		t.Fatal("expected an error for non-pdf bytes")
	}
}

func TestCheck_ImageOnlyPDFRejected(t *testing.T) {
	// Five pages, none carrying any text: the shape of a scanned document.
	data := buildPDF(t, []string{"", "", "", "", ""})
	v := &Validator{Extractor: PDFExtractor{}}
	if _, err := v.Check(data, KindPDF); !errors.Is(err, ErrNoExtractableText) {
		t.Fatalf("got %v, want ErrNoExtractableText", err)
	}
}

func TestCheck_CorruptedBytesRejected(t *testing.T) {
	data := bytes.Repeat([]byte{0x00, 0x01, 0x02, 0x03}, 512)
	v := &Validator{Extractor: PDFExtractor{}}
	if _, err := v.Check(data, KindPDF); !errors.Is(err, ErrCorrupted) {
		t.Fatalf("got %v, want ErrCorrupted", err)
	}
}
