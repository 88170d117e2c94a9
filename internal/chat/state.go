package chat

import (
	"slices"

	"github.com/spigell/ask-my-resume/internal/ai"
	"github.com/spigell/ask-my-resume/internal/keyphrase"
	"github.com/spigell/ask-my-resume/internal/ranking"
	"github.com/spigell/ask-my-resume/internal/resume"
)

type Phase string

const (
	// PhaseNew is a session that has not been greeted yet.
	PhaseNew          Phase = "new"
	PhaseChatting     Phase = "chatting"
	PhaseLimitReached Phase = "limit_reached"
	PhaseEnded        Phase = "ended"
	// PhaseFailed is terminal: the résumé context is unavailable.
	PhaseFailed Phase = "failed"
)

// State is everything a single conversation owns. Step never mutates a State
// it receives; it returns a new one.
type State struct {
	Phase Phase
	// History is the conversation as sent to the model, system prompt included.
	History []ai.Message
	// Conversation is what the user sees.
	Conversation []ai.Message
	Keyphrases   keyphrase.Set
	Suggestions  []string

	RelevantProjects   []ranking.Ranked[resume.Project]
	RelevantExperience []ranking.Ranked[resume.Experience]

	// Turns counts accepted user turns. It survives a reset.
	Turns int
	// LastError is the recoverable error of the most recent failed event.
	LastError error
}

// NewState returns the state of a session before the greeting.
func NewState() State {
	return State{Phase: PhaseNew, Keyphrases: keyphrase.NewSet()}
}

func (s State) clone() State {
	s.History = slices.Clone(s.History)
	s.Conversation = slices.Clone(s.Conversation)
	s.Suggestions = slices.Clone(s.Suggestions)
	s.RelevantProjects = slices.Clone(s.RelevantProjects)
	s.RelevantExperience = slices.Clone(s.RelevantExperience)
	s.Keyphrases = s.Keyphrases.Clone()
	return s
}

// Event is a user action consumed by Step.
type Event interface {
	Name() string
}

// Start greets the user. It is a no-op once the session is greeted.
type Start struct{}

// Prompt is a typed question.
type Prompt struct {
	Text string
}

// Suggestion picks one of the follow-up questions offered by the last reply.
type Suggestion struct {
	Index int
}

// Reset clears the conversation and greets again. The turn count is kept.
type Reset struct{}

type End struct{}

func (Start) Name() string      { return "start" }
func (Prompt) Name() string     { return "prompt" }
func (Suggestion) Name() string { return "suggestion" }
func (Reset) Name() string      { return "reset" }
func (End) Name() string        { return "end" }
