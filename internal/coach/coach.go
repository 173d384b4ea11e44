// Package coach is the document question-answering mediator. It accepts a
// question plus an optional uploaded document, relays them to the external
// reasoning service, and verifies the service's citations locally against an
// indexed copy of the document before rendering the final answer.
package coach

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gocoach/internal/cite"
	"github.com/hyperifyio/gocoach/internal/locate"
	"github.com/hyperifyio/gocoach/internal/preflight"
	"github.com/hyperifyio/gocoach/internal/probe"
	"github.com/hyperifyio/gocoach/internal/reasoner"
	"github.com/hyperifyio/gocoach/internal/session"
)

// Fetcher retrieves attachment bytes. Any failure is surfaced to the user as
// "cannot analyze this file".
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Attachment describes one uploaded file as delivered by the command layer.
type Attachment struct {
	URL         string
	Filename    string
	ContentType string
	Size        int64
}

// Service wires the citation pipeline: preflight, indexing, the reasoning
// call, page location and citation formatting. One request runs the pipeline
// as an uninterrupted sequence; requests for different sessions never
// interact.
type Service struct {
	cfg       Config
	store     session.Store
	fetcher   Fetcher
	reasoner  reasoner.Client
	validator *preflight.Validator
	matcher   *locate.Matcher
}

func New(cfg Config, store session.Store, f Fetcher, r reasoner.Client) *Service {
	return &Service{
		cfg:      cfg,
		store:    store,
		fetcher:  f,
		reasoner: r,
		validator: &preflight.Validator{
			Limits: preflight.Limits{
				MinFileBytes: cfg.MinFileBytes,
				MaxFileBytes: int64(cfg.MaxFileMB) << 20,
				MinTextChars: cfg.MinTextChars,
			},
			Extractor: preflight.PDFExtractor{},
		},
		matcher: &locate.Matcher{Threshold: cfg.FuzzyThreshold},
	}
}

// Answer handles one question, with an optional attachment, and always
// returns a user-facing string. Every failure path resolves to one of the
// fixed sentences in messages.go; no fault escapes.
func (s *Service) Answer(ctx context.Context, sessionID, question string, att *Attachment) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("session", sessionID).Msg("answer pipeline panicked")
			reply = msgInternal
		}
	}()

	sess := s.store.GetOrCreate(sessionID)
	var uploaded []string

	if att != nil {
		kind, ok := preflight.KindFor(att.ContentType, att.Filename)
		if !ok {
			return MsgUnsupportedType
		}
		if err := s.validator.CheckDeclared(kind, att.Size); err != nil {
			return s.rejectMessage(err)
		}

		data, err := s.fetcher.Get(ctx, att.URL)
		if err != nil {
			log.Warn().Err(err).Str("file", att.Filename).Msg("attachment fetch failed")
			return MsgTransportFailure
		}

		pages, err := s.validator.Check(data, kind)
		if err != nil {
			log.Info().Err(err).Str("file", att.Filename).Msg("preflight rejected upload")
			return s.rejectMessage(err)
		}

		fileID, err := s.reasoner.UploadFile(ctx, att.Filename, data)
		if err != nil {
			// Local validation already ruled out the common empty and size
			// cases, so a failed ingestion reads as a broken file.
			log.Warn().Err(err).Str("file", att.Filename).Msg("ingestion failed after preflight")
			return MsgIngestionFailure
		}

		sess.AddDocument(&session.Document{
			ID:       fileID,
			Filename: att.Filename,
			Kind:     string(kind),
			Size:     int64(len(data)),
			Pages:    pages,
		})
		uploaded = append(uploaded, fileID)
		log.Info().Str("file", fileID).Str("name", att.Filename).Int("pages", len(pages)).Msg("document indexed")
	}

	if len(uploaded) == 0 && !sess.HasUpload() {
		return MsgNoPriorUpload
	}

	threadID := sess.ThreadID()
	if threadID == "" {
		id, err := s.reasoner.CreateThread(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("thread creation failed")
			return MsgUpstreamFailure
		}
		sess.SetThreadID(id)
		threadID = id
	}

	resp, err := s.reasoner.Ask(ctx, threadID, question, uploaded)
	if err != nil {
		log.Warn().Err(err).Str("thread", threadID).Msg("reasoning call failed")
		return MsgUpstreamFailure
	}

	cands := cite.ParseAnnotations(resp.Annotations)
	if len(cands) == 0 {
		if c, ok := cite.Synthesize(resp.Answer, sess.Documents(), s.matcher, s.cfg.ProbeWindow); ok {
			log.Debug().Str("file", c.FileID).Int("page", c.Page).Msg("synthesized fallback citation")
			cands = append(cands, c)
		}
	}
	s.resolvePages(sess, cands)

	return cite.Format(resp.Answer, cands, sess.Filename, s.cfg.MaxQuoteLen)
}

// resolvePages runs the locator for every candidate that still lacks a page.
// An unresolved page is not a failure; it renders as "page n/a".
func (s *Service) resolvePages(sess *session.Session, cands []cite.Candidate) {
	for i := range cands {
		if cands[i].Page != locate.Unknown || cands[i].Quote == "" {
			continue
		}
		pages, ok := sess.Pages(cands[i].FileID)
		if !ok {
			continue
		}
		cands[i].Page = s.matcher.Locate(pages, probe.Set(cands[i].Quote, s.cfg.ProbeWindow))
	}
}

// Reset clears all per-session state: document list, page indexes and the
// filename mapping.
func (s *Service) Reset(sessionID string) {
	s.store.Delete(sessionID)
	log.Info().Str("session", sessionID).Msg("session reset")
}

func (s *Service) rejectMessage(err error) string {
	switch {
	case errors.Is(err, preflight.ErrUnsupportedType):
		return MsgUnsupportedType
	case errors.Is(err, preflight.ErrEmptyDocument):
		return MsgEmptyDocument
	case errors.Is(err, preflight.ErrTooLarge):
		return TooLargeMessage(s.cfg.MaxFileMB)
	case errors.Is(err, preflight.ErrNoExtractableText):
		return MsgNoExtractableText
	case errors.Is(err, preflight.ErrCorrupted):
		return MsgCorrupted
	}
	return msgInternal
}
