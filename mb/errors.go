package mb

import (
	"errors"
	"fmt"
)

// TransientError is a response worth retrying: rate limiting, server trouble,
// or a connection that never completed.
type TransientError struct {
	Status int // 0 when the request got no response at all
	Err    error
}

func (e *TransientError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request error: %v", e.Err)
	}
	return fmt.Sprintf("http status code %d: %v", e.Status, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError is a definitive rejection from the service. Retrying won't
// help; the start of the response body is kept for diagnosis.
type PermanentError struct {
	Status int
	URL    string
	Body   string
}

func (e *PermanentError) Error() string {
	if e.Status == 0 {
		// no rejected status to report: the response itself was unusable
		return fmt.Sprintf("mb error: %s", e.Body)
	}
	return fmt.Sprintf("mb error %d for %s\n%s", e.Status, e.URL, e.Body)
}

// IsTransient reports whether err is, or wraps, a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
