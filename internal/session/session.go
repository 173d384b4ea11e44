package session

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Document is one validated upload owned by a session. Immutable after
// ingestion apart from re-indexing under the same identifier.
type Document struct {
	// ID is the opaque identifier assigned at ingestion by the reasoning
	// service.
	ID       string
	Filename string
	Kind     string
	Size     int64
	// Pages holds normalized per-page texts, one entry per physical page.
	// Plain text documents have no page concept and keep this nil.
	Pages []string
}

// Session accumulates one user's uploads and derived page indexes between
// resets. Methods are safe for concurrent use; ordering between concurrent
// writers is the caller's concern, the lock only prevents corruption.
type Session struct {
	mu        sync.Mutex
	threadID  string
	hasUpload bool
	docs      []*Document
	byID      map[string]*Document
}

// AddDocument appends a validated upload. Re-adding an existing identifier
// replaces the stored document in place and keeps its original position in
// upload order.
func (s *Session) AddDocument(d *Document) {
	if d == nil || d.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byID == nil {
		s.byID = make(map[string]*Document)
	}
	if prev, ok := s.byID[d.ID]; ok {
		*prev = *d
		return
	}
	cp := *d
	s.byID[d.ID] = &cp
	s.docs = append(s.docs, &cp)
	s.hasUpload = true
}

// Index stores the normalized page sequence for a known document,
// overwriting any prior entry. Unknown identifiers are ignored: indexing
// trusts ingestion to have registered the document first.
func (s *Session) Index(docID string, pages []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.byID[docID]
	if !ok {
		log.Debug().Str("doc", docID).Msg("index request for unknown document")
		return
	}
	d.Pages = pages
}

// Pages returns the normalized page sequence for a document and whether an
// index exists for it.
func (s *Session) Pages(docID string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.byID[docID]
	if !ok {
		return nil, false
	}
	return d.Pages, true
}

// Documents returns the uploads in order, most recent last.
func (s *Session) Documents() []*Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Filename resolves a document identifier to its original filename, falling
// back to the raw identifier when no mapping exists.
func (s *Session) Filename(docID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.byID[docID]; ok && d.Filename != "" {
		return d.Filename
	}
	return docID
}

// HasUpload reports whether at least one validated upload has completed in
// this session.
func (s *Session) HasUpload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasUpload
}

// ThreadID returns the reasoning-service thread bound to this session, empty
// when none has been created yet.
func (s *Session) ThreadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID
}

func (s *Session) SetThreadID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threadID = id
}

// Store is the keyed session store. The host process owns the lifecycle and
// tears sessions down on reset. An in-memory backing is provided; the
// interface leaves room for a persistent one.
type Store interface {
	// GetOrCreate returns the session for a key, creating it on first use.
	GetOrCreate(key string) *Session
	// Lookup returns the session for a key without creating one.
	Lookup(key string) (*Session, bool)
	// Delete drops all state for a key.
	Delete(key string)
}

// MemoryStore is the in-process Store backing.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) GetOrCreate(key string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[key]; ok {
		return s
	}
	s := &Session{}
	m.sessions[key] = s
	return s
}

func (m *MemoryStore) Lookup(key string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	return s, ok
}

func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}
