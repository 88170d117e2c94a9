package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/ask-my-resume/internal/ai"
	"github.com/spigell/ask-my-resume/internal/keyphrase"
	"github.com/spigell/ask-my-resume/internal/ranking"
	"github.com/spigell/ask-my-resume/internal/resume"
)

// Deps aggregates what a conversation step needs besides its state.
type Deps struct {
	Assistant    ai.Assistant
	Resume       *resume.Resume
	SystemPrompt string
	Config       Config
}

// CanAcceptMessage reports whether the turn with the given 1-based number fits in limit.
func CanAcceptMessage(turn, limit int) bool {
	return turn <= limit
}

// Step applies event to state and returns the next state. The returned error
// is also stored in LastError when it comes from a failed model call, in which
// case the returned state is otherwise identical to the input.
func Step(ctx context.Context, deps Deps, state State, event Event) (State, error) {
	cfg := deps.Config.WithDefaults()

	if state.Phase == PhaseEnded {
		return state, ErrSessionEnded
	}

	if _, ok := event.(End); ok {
		next := state.clone()
		next.Phase = PhaseEnded
		next.Suggestions = nil
		next.LastError = nil
		return next, nil
	}

	if deps.Resume == nil || deps.Assistant == nil {
		next := state.clone()
		next.Phase = PhaseFailed
		next.LastError = ErrContextMissing
		return next, ErrContextMissing
	}

	if state.Phase == PhaseFailed {
		return state, ErrContextMissing
	}

	switch e := event.(type) {
	case Start:
		if state.Phase != PhaseNew {
			return state, nil
		}
		return greet(ctx, deps, cfg, state)

	case Reset:
		fresh := NewState()
		fresh.Turns = state.Turns
		next, err := greet(ctx, deps, cfg, fresh)
		if err != nil {
			// The old conversation stays visible if the new greeting failed.
			failed := state.clone()
			failed.LastError = err
			return failed, err
		}
		return next, nil

	case Prompt:
		text := strings.TrimSpace(e.Text)
		if text == "" {
			return state, ErrEmptyPrompt
		}
		if n := utf8.RuneCountInString(text); n > cfg.MaxPromptLength {
			return state, fmt.Errorf("%w: %d characters, at most %d allowed", ErrPromptTooLong, n, cfg.MaxPromptLength)
		}
		return turn(ctx, deps, cfg, state, text)

	case Suggestion:
		if e.Index < 0 || e.Index >= len(state.Suggestions) {
			return state, fmt.Errorf("%w: %d", ErrUnknownSuggestion, e.Index)
		}
		return turn(ctx, deps, cfg, state, state.Suggestions[e.Index])

	default:
		return state, fmt.Errorf("unsupported event %T", event)
	}
}

func greet(ctx context.Context, deps Deps, cfg Config, state State) (State, error) {
	history := []ai.Message{{Role: ai.RoleSystem, Content: deps.SystemPrompt}}

	reply, err := ask(ctx, deps, cfg, history)
	if err != nil {
		failed := state.clone()
		failed.LastError = err
		return failed, err
	}

	next := state.clone()
	next.History = append(history, assistantMessage(reply))
	next.Conversation = []ai.Message{{Role: ai.RoleAssistant, Content: reply.Message}}
	next.Suggestions = reply.Suggestions
	next.LastError = nil
	next.Phase = phaseAfter(next.Turns, cfg)
	return next, nil
}

func turn(ctx context.Context, deps Deps, cfg Config, state State, text string) (State, error) {
	switch state.Phase {
	case PhaseNew:
		return state, ErrNotStarted
	case PhaseLimitReached:
		return state, ErrTurnLimitExceeded
	}

	if !CanAcceptMessage(state.Turns+1, cfg.MaxTurns) {
		next := state.clone()
		next.Phase = PhaseLimitReached
		return next, ErrTurnLimitExceeded
	}

	keyphrases := keyphrase.Extract(text, state.Keyphrases)
	user := ai.Message{Role: ai.RoleUser, Content: text}

	history := append(state.clone().History, user)
	reply, err := ask(ctx, deps, cfg, history)
	if err != nil {
		failed := state.clone()
		failed.LastError = err
		return failed, err
	}

	next := state.clone()
	next.History = append(history, assistantMessage(reply))
	next.Conversation = append(next.Conversation, user, ai.Message{Role: ai.RoleAssistant, Content: reply.Message})
	next.Keyphrases = keyphrases
	next.Suggestions = reply.Suggestions
	next.RelevantProjects = ranking.Top(ranking.Rank(deps.Resume.Projects, keyphrases), cfg.PanelSize)
	next.RelevantExperience = ranking.Top(ranking.Rank(deps.Resume.Experience, keyphrases), cfg.PanelSize)
	next.Turns++
	next.LastError = nil
	next.Phase = phaseAfter(next.Turns, cfg)
	return next, nil
}

func ask(ctx context.Context, deps Deps, cfg Config, history []ai.Message) (*ai.Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	reply, err := deps.Assistant.Reply(ctx, history)
	if err != nil {
		if errors.Is(err, ai.ErrAPI) || errors.Is(err, ai.ErrMalformedResponse) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ai.ErrAPI, err)
	}
	if reply == nil {
		return nil, fmt.Errorf("%w: empty reply", ai.ErrMalformedResponse)
	}
	return reply, nil
}

// assistantMessage keeps the raw JSON in the model history so the model
// sees its own answers in the format it is asked to produce.
func assistantMessage(reply *ai.Reply) ai.Message {
	content := strings.TrimSpace(reply.Raw)
	if content == "" {
		content = reply.Message
	}
	return ai.Message{Role: ai.RoleAssistant, Content: content}
}

func phaseAfter(turns int, cfg Config) Phase {
	if !CanAcceptMessage(turns+1, cfg.MaxTurns) {
		return PhaseLimitReached
	}
	return PhaseChatting
}
