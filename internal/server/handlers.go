package server

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/ask-my-resume/internal/chat"
	"github.com/spigell/ask-my-resume/internal/logger"
)

type sessionResponse struct {
	ID   string    `json:"id"`
	View chat.View `json:"view"`
}

// messageRequest carries either a typed prompt or the index of a suggestion.
type messageRequest struct {
	Prompt     *string `json:"prompt"`
	Suggestion *int    `json:"suggestion"`
}

func (m messageRequest) event() (chat.Event, error) {
	switch {
	case m.Prompt != nil && m.Suggestion != nil:
		return nil, fmt.Errorf("%w: send either prompt or suggestion", errBadRequest)
	case m.Prompt != nil:
		return chat.Prompt{Text: *m.Prompt}, nil
	case m.Suggestion != nil:
		return chat.Suggestion{Index: *m.Suggestion}, nil
	default:
		return nil, fmt.Errorf("%w: prompt or suggestion is required", errBadRequest)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.store.Len()})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Create()

	// Sessions that failed to greet are not kept.
	if _, err := sess.Handle(r.Context(), chat.Start{}); err != nil {
		s.store.Delete(sess.ID())
		s.errorResponse(w, err, errorBody{})
		return
	}
	view := sess.View()

	s.jsonResponse(w, http.StatusCreated, sessionResponse{ID: sess.ID(), View: view})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, err, errorBody{})
		return
	}

	s.jsonResponse(w, http.StatusOK, sessionResponse{ID: sess.ID(), View: sess.View()})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, err, errorBody{})
		return
	}

	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, err, errorBody{})
		return
	}

	event, err := req.event()
	if err != nil {
		s.errorResponse(w, err, errorBody{})
		return
	}

	s.apply(w, r, sess, event)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, err, errorBody{})
		return
	}

	s.apply(w, r, sess, chat.Reset{})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, err, errorBody{})
		return
	}

	s.jsonResponse(w, http.StatusOK, sess.Transcript())
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, err, errorBody{})
		return
	}

	if _, err := sess.Handle(r.Context(), chat.End{}); err != nil {
		s.logger.Warn("ending session", zap.String(logger.FieldSession, sess.ID()), zap.Error(err))
	}
	s.store.Delete(sess.ID())
	s.jsonResponse(w, http.StatusOK, sess.Transcript())
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request, sess *chat.Session, event chat.Event) {
	view, err := sess.Handle(r.Context(), event)
	if err != nil {
		s.errorResponse(w, err, errorBody{ID: sess.ID(), View: &view})
		return
	}

	s.jsonResponse(w, http.StatusOK, sessionResponse{ID: sess.ID(), View: view})
}
