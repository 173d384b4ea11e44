package coach

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hyperifyio/gocoach/internal/reasoner"
	"github.com/hyperifyio/gocoach/internal/session"
)

type fakeFetcher struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeFetcher) Get(context.Context, string) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

type fakeReasoner struct {
	uploads   int
	uploadErr error
	threadErr error
	resp      reasoner.Response
	askErr    error
	askedFile []string
	questions []string
}

func (r *fakeReasoner) UploadFile(context.Context, string, []byte) (string, error) {
	if r.uploadErr != nil {
		return "", r.uploadErr
	}
	r.uploads++
	return fmt.Sprintf("file-%d", r.uploads), nil
}

func (r *fakeReasoner) CreateThread(context.Context) (string, error) {
	if r.threadErr != nil {
		return "", r.threadErr
	}
	return "thread-1", nil
}

func (r *fakeReasoner) Ask(_ context.Context, _ string, question string, fileIDs []string) (reasoner.Response, error) {
	r.questions = append(r.questions, question)
	r.askedFile = append(r.askedFile, fileIDs...)
	if r.askErr != nil {
		return reasoner.Response{}, r.askErr
	}
	return r.resp, nil
}

type stubExtractor struct {
	pages []string
	err   error
}

func (s stubExtractor) Pages([]byte) ([]string, error) { return s.pages, s.err }

func newTestService(f Fetcher, r reasoner.Client) *Service {
	return New(DefaultConfig(), session.NewMemoryStore(), f, r)
}

func pdfAttachment(size int64) *Attachment {
	return &Attachment{URL: "https://cdn.example/file", Filename: "filename.pdf", ContentType: "application/pdf", Size: size}
}

func TestAnswer_NoPriorUploadMessage(t *testing.T) {
	r := &fakeReasoner{}
	s := newTestService(&fakeFetcher{}, r)
	got := s.Answer(context.Background(), "user-1", "what does the fund do?", nil)
	if got != MsgNoPriorUpload {
		t.Fatalf("got %q, want %q", got, MsgNoPriorUpload)
	}
	if len(r.questions) != 0 {
		t.Fatal("reasoning service must not be called without an upload")
	}
}

func TestAnswer_UnsupportedType(t *testing.T) {
	s := newTestService(&fakeFetcher{}, &fakeReasoner{})
	att := &Attachment{URL: "u", Filename: "scan.png", ContentType: "image/png", Size: 4096}
	if got := s.Answer(context.Background(), "user-1", "q", att); got != MsgUnsupportedType {
		t.Fatalf("got %q", got)
	}
}

func TestAnswer_DeclaredSizeGuardsSkipFetch(t *testing.T) {
	f := &fakeFetcher{}
	s := newTestService(f, &fakeReasoner{})

	if got := s.Answer(context.Background(), "user-1", "q", pdfAttachment(10)); got != MsgEmptyDocument {
		t.Fatalf("sub-floor: got %q", got)
	}
	if got := s.Answer(context.Background(), "user-1", "q", pdfAttachment(16<<20)); got != TooLargeMessage(15) {
		t.Fatalf("over ceiling: got %q", got)
	}
	if f.calls != 0 {
		t.Fatalf("fetch attempted %d times before declared-size guards", f.calls)
	}
}

func TestAnswer_TransportFailure(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection reset")}
	r := &fakeReasoner{}
	s := newTestService(f, r)
	if got := s.Answer(context.Background(), "user-1", "q", pdfAttachment(4096)); got != MsgTransportFailure {
		t.Fatalf("got %q", got)
	}
	if r.uploads != 0 {
		t.Fatal("no ingestion after a failed fetch")
	}
}

func TestAnswer_EmptyTextFileNoIngestion(t *testing.T) {
	f := &fakeFetcher{data: bytes.Repeat([]byte(" \n"), 1024)}
	r := &fakeReasoner{}
	s := newTestService(f, r)
	att := &Attachment{URL: "u", Filename: "notes.txt", ContentType: "text/plain", Size: 2048}
	if got := s.Answer(context.Background(), "user-1", "q", att); got != MsgEmptyDocument {
		t.Fatalf("got %q, want %q", got, MsgEmptyDocument)
	}
	if r.uploads != 0 {
		t.Fatal("ingestion attempted for an empty document")
	}
}

func TestAnswer_ImageOnlyPDFRejected(t *testing.T) {
	f := &fakeFetcher{data: bytes.Repeat([]byte("x"), 2048)}
	r := &fakeReasoner{}
	s := newTestService(f, r)
	s.validator.Extractor = stubExtractor{pages: []string{"", "", "", "", ""}}
	if got := s.Answer(context.Background(), "user-1", "q", pdfAttachment(2048)); got != MsgNoExtractableText {
		t.Fatalf("got %q", got)
	}
	if r.uploads != 0 {
		t.Fatal("ingestion attempted for a text-free document")
	}
}

func TestAnswer_IngestionFailureAfterPreflight(t *testing.T) {
	f := &fakeFetcher{data: bytes.Repeat([]byte("x"), 2048)}
	r := &fakeReasoner{uploadErr: errors.New("503 from ingest")}
	s := newTestService(f, r)
	s.validator.Extractor = stubExtractor{pages: []string{"plenty of extractable text on this page to clear the floor"}}
	if got := s.Answer(context.Background(), "user-1", "q", pdfAttachment(2048)); got != MsgIngestionFailure {
		t.Fatalf("got %q", got)
	}
}

func TestAnswer_UpstreamFailure(t *testing.T) {
	f := &fakeFetcher{data: bytes.Repeat([]byte("x"), 2048)}
	r := &fakeReasoner{askErr: reasoner.ErrUpstream}
	s := newTestService(f, r)
	s.validator.Extractor = stubExtractor{pages: []string{"plenty of extractable text on this page to clear the floor"}}
	if got := s.Answer(context.Background(), "user-1", "q", pdfAttachment(2048)); got != MsgUpstreamFailure {
		t.Fatalf("got %q", got)
	}
}

func TestAnswer_RoundTripCitationResolvesPage(t *testing.T) {
	f := &fakeFetcher{data: bytes.Repeat([]byte("x"), 2048)}
	r := &fakeReasoner{
		resp: reasoner.Response{
			Answer: "The fund follows a quarterly schedule.",
			Annotations: []any{
				map[string]any{
					"type": "file_citation",
					"file_citation": map[string]any{
						"file_id": "file-1",
						"quote":   "The Fund Rebalances   Quarterly.",
					},
				},
			},
		},
	}
	s := newTestService(f, r)
	s.validator.Extractor = stubExtractor{pages: []string{
		"Introduction and overview of the fund objectives",
		"Policy: The Fund\nRebalances   Quarterly. Additional policy details follow here.",
		"Closing summary and contact information",
	}}

	got := s.Answer(context.Background(), "user-1", "when does it rebalance?", pdfAttachment(2048))
	if !strings.Contains(got, "(filename.pdf, page 2)") {
		t.Fatalf("citation page not resolved:\n%s", got)
	}
	if !strings.Contains(got, "Citations:") {
		t.Fatalf("missing citations section:\n%s", got)
	}
	if r.askedFile[0] != "file-1" {
		t.Fatalf("uploaded file not attached to the question: %v", r.askedFile)
	}
}

func TestAnswer_TextDocumentRendersPageNA(t *testing.T) {
	f := &fakeFetcher{data: []byte(strings.Repeat("The fund rebalances quarterly. ", 40))}
	r := &fakeReasoner{
		resp: reasoner.Response{
			Answer: "Quarterly.",
			Annotations: []any{
				map[string]any{
					"type": "file_citation",
					"file_citation": map[string]any{
						"file_id": "file-1",
						"quote":   "The fund rebalances quarterly.",
					},
				},
			},
		},
	}
	s := newTestService(f, r)
	att := &Attachment{URL: "u", Filename: "notes.txt", ContentType: "text/plain", Size: 2048}
	got := s.Answer(context.Background(), "user-1", "q", att)
	if !strings.Contains(got, "(notes.txt, page n/a)") {
		t.Fatalf("text documents must cite page n/a:\n%s", got)
	}
}

func TestAnswer_SynthesizesFromQuotedAnswer(t *testing.T) {
	f := &fakeFetcher{data: bytes.Repeat([]byte("x"), 2048)}
	r := &fakeReasoner{
		resp: reasoner.Response{
			Answer: `The policy states "the fund rebalances quarterly subject to board approval" in its schedule.`,
		},
	}
	s := newTestService(f, r)
	s.validator.Extractor = stubExtractor{pages: []string{
		"General overview text without the relevant phrase",
		"The fund rebalances quarterly subject to board approval and notice.",
	}}
	got := s.Answer(context.Background(), "user-1", "q", pdfAttachment(2048))
	if !strings.Contains(got, "(filename.pdf, page 2)") {
		t.Fatalf("synthesized citation not located:\n%s", got)
	}
}

func TestAnswer_SynthesizerPrefersMostRecentUpload(t *testing.T) {
	sharedPages := []string{"the fund rebalances quarterly subject to board approval"}
	f := &fakeFetcher{data: bytes.Repeat([]byte("x"), 2048)}
	r := &fakeReasoner{resp: reasoner.Response{Answer: "Noted."}}
	s := newTestService(f, r)
	s.validator.Extractor = stubExtractor{pages: sharedPages}

	first := &Attachment{URL: "u", Filename: "first.pdf", ContentType: "application/pdf", Size: 2048}
	s.Answer(context.Background(), "user-1", "q", first)

	// Second upload carries the same page text; the quoted answer matches
	// both documents and must attribute to the newer one.
	r.resp = reasoner.Response{Answer: `It says "the fund rebalances quarterly subject to board approval" here.`}
	second := &Attachment{URL: "u", Filename: "second.pdf", ContentType: "application/pdf", Size: 2048}
	got := s.Answer(context.Background(), "user-1", "q", second)
	if !strings.Contains(got, "(second.pdf, page 1)") {
		t.Fatalf("expected attribution to the most recent upload:\n%s", got)
	}
}

func TestReset_ClearsSessionState(t *testing.T) {
	f := &fakeFetcher{data: bytes.Repeat([]byte("x"), 2048)}
	r := &fakeReasoner{resp: reasoner.Response{Answer: "ok"}}
	s := newTestService(f, r)
	s.validator.Extractor = stubExtractor{pages: []string{"plenty of extractable text on this page to clear the floor"}}

	s.Answer(context.Background(), "user-1", "q", pdfAttachment(2048))
	s.Reset("user-1")

	if got := s.Answer(context.Background(), "user-1", "q", nil); got != MsgNoPriorUpload {
		t.Fatalf("got %q after reset, want %q", got, MsgNoPriorUpload)
	}
}

func TestAnswer_FollowUpQuestionWithoutAttachment(t *testing.T) {
	f := &fakeFetcher{data: bytes.Repeat([]byte("x"), 2048)}
	r := &fakeReasoner{resp: reasoner.Response{Answer: "First answer."}}
	s := newTestService(f, r)
	s.validator.Extractor = stubExtractor{pages: []string{"plenty of extractable text on this page to clear the floor"}}

	s.Answer(context.Background(), "user-1", "first question", pdfAttachment(2048))
	got := s.Answer(context.Background(), "user-1", "follow-up question", nil)
	if got == MsgNoPriorUpload {
		t.Fatal("follow-up after a validated upload should reach the service")
	}
	if len(r.questions) != 2 {
		t.Fatalf("asked %d times, want 2", len(r.questions))
	}
}
