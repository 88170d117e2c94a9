package chat

import (
	"errors"

	"github.com/spigell/ask-my-resume/internal/resume"
)

var (
	// ErrContextMissing means the résumé context was not available when the session started.
	ErrContextMissing = resume.ErrMissing
	// ErrTurnLimitExceeded is returned once the session used all of its turns.
	ErrTurnLimitExceeded = errors.New("turn limit exceeded")
	ErrPromptTooLong     = errors.New("prompt is too long")
	ErrEmptyPrompt       = errors.New("prompt is empty")
	ErrUnknownSuggestion = errors.New("unknown suggestion")
	ErrNotStarted        = errors.New("session has not started")
	ErrSessionEnded      = errors.New("session has ended")
)

// IsInputError reports whether err was caused by invalid user input rather than a failed turn.
func IsInputError(err error) bool {
	return errors.Is(err, ErrPromptTooLong) ||
		errors.Is(err, ErrEmptyPrompt) ||
		errors.Is(err, ErrUnknownSuggestion)
}
