// Package logic holds the pieces shared by the RTPS and render flows: the
// placement and brand configuration fetcher, flow traces and the errors
// reported to the host.
package logic

import (
	"errors"
	"fmt"
)

// Messages in these errors reach the host verbatim through SdkError events.
var (
	ErrRTPSInProgress         = errors.New("RTPS request already in progress")
	ErrBrandConfigUnavailable = errors.New("Brand configurations are missing or unavailable.")
	ErrPopupParse             = errors.New("Error: Unable to parse popup placement.")
	ErrUnhandledPopupType     = errors.New("Unhandled popup placement type.")
	ErrUnhandledTextType      = errors.New("Unhandled text placement type.")
	ErrSomethingWentWrong     = errors.New("Something went wrong. Please try again later.")
	ErrNoPlacement            = errors.New("no placement returned")
	ErrPrescreenResult        = errors.New("Error: PreScreen Result")
	ErrChallengeDismissed     = errors.New("security challenge dismissed")
	ErrChallengeRepeated      = errors.New("security challenge repeated after replay")
)

// PrefixedError formats a transport or decode failure the way the host
// sees it: "Error: <message>".
func PrefixedError(err error) error {
	return fmt.Errorf("Error: %w", err)
}

// WebURLError reports a hosted page that failed to load.
func WebURLError(err error) error {
	return fmt.Errorf("Error: Web Url Loading Issue: %w", err)
}

// PrescreenError reports a pre-screen outcome that did not produce an
// approval.
func PrescreenError(result fmt.Stringer) error {
	return fmt.Errorf("%w %s", ErrPrescreenResult, result)
}
