package assistant

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential = errors.New("missing API key")
	ErrEmptyResponse     = errors.New("empty response from provider")
	ErrMalformedJSON     = errors.New("provider response is not valid JSON")
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrUnknownPersona    = errors.New("unknown persona")
	ErrEmptyConversation = errors.New("conversation has no user message")
	ErrNoPendingTurn     = errors.New("conversation must end with a user or tool turn")
)

// HTTPError is a non-2xx vendor reply.
type HTTPError struct {
	Provider Provider
	Status   int
	Body     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s error: status=%d body=%s", e.Provider, e.Status, e.Body)
}
