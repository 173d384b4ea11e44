// Package reasoner holds the narrow surface consumed from the external
// reasoning service: upload a document, keep a per-session thread, and ask a
// question over uploaded documents. The service is an untrusted black box;
// its answer text and raw citation annotations are passed through for local
// verification, never taken at face value.
package reasoner

import (
	"context"
	"errors"
)

// ErrUpstream reports that the reasoning call did not complete successfully
// within its timeout budget. The caller maps it to one fixed user sentence.
var ErrUpstream = errors.New("reasoning service did not complete")

// Response is a free-text answer plus zero or more raw citation annotations.
// Annotations keep their wire shape; internal/cite normalizes them at one
// boundary.
type Response struct {
	Answer      string
	Annotations []any
}

// Client is the minimal interface the mediator needs from the reasoning
// service. It mirrors the assistant-thread flow so any compatible backend can
// be adapted, and keeps the service fakeable in tests.
type Client interface {
	// UploadFile ingests document bytes and returns the opaque identifier
	// the service assigned to them.
	UploadFile(ctx context.Context, filename string, data []byte) (string, error)
	// CreateThread opens a fresh conversation context.
	CreateThread(ctx context.Context) (string, error)
	// Ask posts the question (with any just-uploaded documents attached),
	// waits for the run to finish, and returns the newest answer.
	Ask(ctx context.Context, threadID, question string, fileIDs []string) (Response, error)
}
