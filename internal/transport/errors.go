package transport

import (
	"errors"
	"fmt"
	"strings"
)

// ChallengePrefix starts the message of every security challenge error.
const ChallengePrefix = "Security challenge detected:"

var (
	// ErrDecode wraps response bodies that are not the expected JSON.
	ErrDecode = errors.New("decode response")
	// ErrRequest wraps failures before a response was received.
	ErrRequest = errors.New("request failed")
)

// HTTPError is a non-2xx response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP Error %d: %s", e.StatusCode, e.Body)
}

// ChallengeError is a response that asks for an interactive security
// challenge. HTML is the page to show.
type ChallengeError struct {
	StatusCode int
	HTML       string
}

func (e *ChallengeError) Error() string {
	return ChallengePrefix + e.HTML
}

// ChallengeHTML reports whether err is a security challenge and returns the
// page to render. The match is on the message prefix, ignoring case, so
// errors that only carry the message text are recognised too.
func ChallengeHTML(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	msg := err.Error()
	if len(msg) < len(ChallengePrefix) || !strings.EqualFold(msg[:len(ChallengePrefix)], ChallengePrefix) {
		return "", false
	}
	return strings.TrimSpace(msg[len(ChallengePrefix):]), true
}
