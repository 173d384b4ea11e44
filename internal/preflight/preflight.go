package preflight

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gocoach/internal/normalize"
)

// Kind is the declared document kind. Only these two are supported; anything
// else is rejected before ingestion.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindText Kind = "text"
)

// Typed reject reasons. Each maps to exactly one user-facing sentence at the
// service boundary; none of them is fatal.
var (
	ErrUnsupportedType   = errors.New("unsupported document type")
	ErrEmptyDocument     = errors.New("empty document")
	ErrTooLarge          = errors.New("document exceeds size ceiling")
	ErrCorrupted         = errors.New("document cannot be parsed")
	ErrNoExtractableText = errors.New("document carries no extractable text")
)

// Limits carries the validation floors and ceiling. Zero fields fall back to
// the defaults below.
type Limits struct {
	// MinFileBytes treats sub-floor files as empty shells. Files this small
	// are overwhelmingly empty exports, not legitimately short content.
	MinFileBytes int64
	// MaxFileBytes is the hard size ceiling.
	MaxFileBytes int64
	// MinTextChars is the minimum total normalized character count across all
	// pages for a PDF to count as carrying text at all.
	MinTextChars int
}

const (
	DefaultMinFileBytes = 1024
	DefaultMaxFileBytes = 15 << 20
	DefaultMinTextChars = 40
)

func (l Limits) withDefaults() Limits {
	if l.MinFileBytes <= 0 {
		l.MinFileBytes = DefaultMinFileBytes
	}
	if l.MaxFileBytes <= 0 {
		l.MaxFileBytes = DefaultMaxFileBytes
	}
	if l.MinTextChars <= 0 {
		l.MinTextChars = DefaultMinTextChars
	}
	return l
}

// PageExtractor produces ordered raw per-page texts from PDF bytes. The
// concrete implementation lives in pdf.go; tests substitute their own.
type PageExtractor interface {
	Pages(data []byte) ([]string, error)
}

// Validator inspects raw bytes before any expensive ingestion call. Ingestion
// is treated as costly and irreversible, so every common failure mode is
// ruled out locally first.
type Validator struct {
	Limits    Limits
	Extractor PageExtractor
}

// KindFor maps a declared content type (with optional filename fallback) to a
// supported Kind. The bool reports whether the document is supported at all.
func KindFor(contentType, filename string) (Kind, bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case "application/pdf":
		return KindPDF, true
	case "text/plain":
		return KindText, true
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF, true
	case ".txt":
		return KindText, true
	}
	return "", false
}

// CheckDeclared applies the cheap guards that need only the declared size:
// supported kind, byte floor, byte ceiling. Callers run it before fetching
// any bytes.
func (v *Validator) CheckDeclared(kind Kind, size int64) error {
	if kind != KindPDF && kind != KindText {
		return ErrUnsupportedType
	}
	lim := v.Limits.withDefaults()
	if size < lim.MinFileBytes {
		return ErrEmptyDocument
	}
	if size > lim.MaxFileBytes {
		return ErrTooLarge
	}
	return nil
}

// Check validates the fetched bytes and, for PDFs, returns the normalized
// per-page texts so indexing never re-parses the document. Plain text
// documents have no page concept and yield a nil page list.
func (v *Validator) Check(data []byte, kind Kind) ([]string, error) {
	if err := v.CheckDeclared(kind, int64(len(data))); err != nil {
		return nil, err
	}
	switch kind {
	case KindPDF:
		return v.checkPDF(data)
	case KindText:
		return nil, checkText(data)
	}
	return nil, ErrUnsupportedType
}

func (v *Validator) checkPDF(data []byte) ([]string, error) {
	lim := v.Limits.withDefaults()
	raw, err := v.Extractor.Pages(data)
	if err != nil {
		log.Debug().Err(err).Msg("pdf parse failed in preflight")
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: zero pages", ErrCorrupted)
	}
	pages := make([]string, len(raw))
	total := 0
	for i, t := range raw {
		pages[i] = normalize.Text(t)
		total += len(pages[i])
	}
	if total < lim.MinTextChars {
		// Likely a scanned, image-only document. OCR is out of scope, so
		// this is a hard reject rather than a retry.
		return nil, ErrNoExtractableText
	}
	return pages, nil
}

func checkText(data []byte) error {
	// Tolerate invalid UTF-8 by dropping the offending sequences.
	decoded := strings.TrimSpace(strings.ToValidUTF8(string(data), ""))
	if decoded == "" {
		return ErrEmptyDocument
	}
	return nil
}
