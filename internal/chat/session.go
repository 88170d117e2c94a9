package chat

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/ask-my-resume/internal/ai"
	"github.com/spigell/ask-my-resume/internal/keyphrase"
	"github.com/spigell/ask-my-resume/internal/logger"
)

// Session owns the state of one visitor's conversation and applies events one at a time.
type Session struct {
	mu      sync.Mutex
	id      string
	deps    Deps
	state   State
	logger  *zap.Logger
	created time.Time
}

func NewSession(id string, deps Deps, log *zap.Logger) *Session {
	deps.Config = deps.Config.WithDefaults()
	return &Session{
		id:      id,
		deps:    deps,
		state:   NewState(),
		logger:  logger.WithFields(log, zap.String(logger.FieldSession, id)),
		created: time.Now().UTC(),
	}
}

func (s *Session) ID() string { return s.id }

// Handle runs event through Step and returns the resulting view.
func (s *Session) Handle(ctx context.Context, event Event) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	next, err := Step(ctx, s.deps, s.state, event)
	s.state = next

	fields := append(logger.SessionFields("", next.Turns),
		zap.String("event", event.Name()),
		zap.String("phase", string(next.Phase)),
		zap.Int("keyphrases", next.Keyphrases.Len()),
		zap.Duration("took", time.Since(started)),
	)

	switch {
	case err == nil:
		s.logger.Info("chat step", fields...)
	case IsInputError(err), errors.Is(err, ErrTurnLimitExceeded), errors.Is(err, ErrSessionEnded), errors.Is(err, ErrNotStarted):
		s.logger.Info("chat step rejected", append(fields, zap.Error(err))...)
	case errors.Is(err, ai.ErrMalformedResponse):
		s.logger.Warn("assistant reply malformed", append(fields, zap.Error(err))...)
	default:
		s.logger.Error("chat step failed", append(fields, zap.Error(err))...)
	}

	return Render(next, s.deps.Resume, s.deps.Config), err
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Render(s.state, s.deps.Resume, s.deps.Config)
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Transcript is the exported form of a conversation.
type Transcript struct {
	SessionID  string        `json:"session_id"`
	Candidate  string        `json:"candidate,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	ExportedAt time.Time     `json:"exported_at"`
	Turns      int           `json:"turns"`
	Keyphrases keyphrase.Set `json:"keyphrases"`
	Messages   []ai.Message  `json:"messages"`
}

func (s *Session) Transcript() Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Transcript{
		SessionID:  s.id,
		StartedAt:  s.created,
		ExportedAt: time.Now().UTC(),
		Turns:      s.state.Turns,
		Keyphrases: s.state.Keyphrases.Clone(),
		Messages:   append([]ai.Message{}, s.state.Conversation...),
	}
	if s.deps.Resume != nil {
		t.Candidate = s.deps.Resume.Intro.Name
	}
	return t
}

// DumpToTmpFile writes the transcript as indented JSON to a temporary file and returns its path.
func (s *Session) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "transcript_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Transcript()); err != nil {
		return "", err
	}
	return file.Name(), nil
}
