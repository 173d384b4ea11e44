// Package httpapi is the thin delivery shim over the coach service: it
// parses requests, applies per-user rate limits, and returns the rendered
// strings. All real behavior lives below it.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gocoach/internal/coach"
	"github.com/hyperifyio/gocoach/internal/ratelimit"
)

// CoachService is the single entry point consumed from the mediator.
type CoachService interface {
	Answer(ctx context.Context, sessionID, question string, att *coach.Attachment) string
	Reset(sessionID string)
}

// ChatService is the stateless fast-answer path.
type ChatService interface {
	Reply(ctx context.Context, prompt, userID string) string
}

type Server struct {
	Coach   CoachService
	Chat    ChatService
	Limiter *ratelimit.Limiter
}

// Router builds the HTTP surface.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/answer", s.handleAnswer).Methods(http.MethodPost)
	r.HandleFunc("/v1/chat", s.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/v1/reset", s.handleReset).Methods(http.MethodPost)
	return r
}

type attachmentPayload struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type answerRequest struct {
	UserID     string             `json:"user_id"`
	Question   string             `json:"question"`
	Attachment *attachmentPayload `json:"attachment,omitempty"`
}

type chatRequest struct {
	UserID string `json:"user_id"`
	Prompt string `json:"prompt"`
}

type resetRequest struct {
	UserID string `json:"user_id"`
	// Mode selects what to reset: "coach", "chat" or "all". Empty means coach.
	Mode string `json:"mode,omitempty"`
}

type replyResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	if s.Limiter != nil {
		if ok, _ := s.Limiter.Allow(req.UserID, "coach"); !ok {
			writeJSON(w, http.StatusTooManyRequests, replyResponse{Reply: "Rate limit reached (coach). Please retry in a minute."})
			return
		}
	}
	var att *coach.Attachment
	if req.Attachment != nil {
		att = &coach.Attachment{
			URL:         req.Attachment.URL,
			Filename:    req.Attachment.Filename,
			ContentType: req.Attachment.ContentType,
			Size:        req.Attachment.Size,
		}
	}
	reply := s.Coach.Answer(r.Context(), req.UserID, req.Question, att)
	writeJSON(w, http.StatusOK, replyResponse{Reply: reply})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	if s.Limiter != nil {
		if ok, _ := s.Limiter.Allow(req.UserID, "chat"); !ok {
			writeJSON(w, http.StatusTooManyRequests, replyResponse{Reply: "Rate limit reached (chat). Please retry in a minute."})
			return
		}
	}
	writeJSON(w, http.StatusOK, replyResponse{Reply: s.Chat.Reply(r.Context(), req.Prompt, req.UserID)})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	mode := strings.ToLower(req.Mode)
	if mode == "" {
		mode = "coach"
	}
	if mode == "coach" || mode == "all" {
		s.Coach.Reset(req.UserID)
		if s.Limiter != nil {
			s.Limiter.Reset(req.UserID, "coach")
		}
	}
	if mode == "chat" || mode == "all" {
		if s.Limiter != nil {
			s.Limiter.Reset(req.UserID, "chat")
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset", "mode": mode})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}
