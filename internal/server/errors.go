package server

import (
	"errors"
	"net/http"

	"github.com/spigell/ask-my-resume/internal/ai"
	"github.com/spigell/ask-my-resume/internal/chat"
	"github.com/spigell/ask-my-resume/internal/session"
)

var errBadRequest = errors.New("bad request")

const (
	messageUnavailable = "The assistant is unavailable right now. Please try again."
	messageInternal    = "Something went wrong. Please reload the page"
)

// HTTPStatus maps domain errors onto response codes.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errBadRequest), chat.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, chat.ErrTurnLimitExceeded), errors.Is(err, chat.ErrNotStarted), errors.Is(err, chat.ErrSessionEnded):
		return http.StatusConflict
	case errors.Is(err, ai.ErrAPI), errors.Is(err, ai.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides provider details from visitors.
func publicMessage(err error) string {
	switch HTTPStatus(err) {
	case http.StatusBadGateway:
		return messageUnavailable
	case http.StatusInternalServerError:
		return messageInternal
	default:
		return err.Error()
	}
}
