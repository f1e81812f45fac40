// internal/authflow/errors.go
package authflow

import (
	"fmt"
	"time"
)

// AmbiguousStateError reports that no post-login classification signal
// matched within the bounded wait. The engine refuses to guess.
type AmbiguousStateError struct {
	URL     string
	Waited  time.Duration
	Checked []string
}

func (e *AmbiguousStateError) Error() string {
	return fmt.Sprintf("post-login state ambiguous at %s after %s (checked: %v)", e.URL, e.Waited, e.Checked)
}

// MissingEnrollmentError reports an MFA challenge for an account with no
// stored secret. A hard dependency edge: surfaced immediately, never
// retried, and no code is submitted.
type MissingEnrollmentError struct {
	Email string
}

func (e *MissingEnrollmentError) Error() string {
	return fmt.Sprintf("MFA challenge for %s but no enrolled secret on file", e.Email)
}

// EnrollmentWindowError reports that the two enrollment codes came from
// the same 30 second window, which the target system rejects. Submitting
// a duplicate pair would mean the mandatory wait was not honored.
type EnrollmentWindowError struct {
	Code string
}

func (e *EnrollmentWindowError) Error() string {
	return "second enrollment code equals the first; codes must come from different 30s windows"
}
