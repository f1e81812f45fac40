package schemas

import "time"

// Account holds the identity used by a single test scenario. Created once
// per run and immutable thereafter.
type Account struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Organization string `json:"organization"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone"`
}

// AuthState classifies what the UI is currently showing after a login
// attempt. It is always recomputed from page signals, never cached.
type AuthState string

const (
	StateLoginForm     AuthState = "LOGIN_FORM"
	StateMFAEnrollment AuthState = "MFA_ENROLLMENT"
	StateMFAChallenge  AuthState = "MFA_CHALLENGE"
	StateAuthenticated AuthState = "AUTHENTICATED"
	StateUnknown       AuthState = "UNKNOWN"
)

// ScenarioResult summarizes one end-to-end scenario run for logging and
// the JSON summary file.
type ScenarioResult struct {
	RunID      string        `json:"run_id"`
	Scenario   string        `json:"scenario"`
	Email      string        `json:"email"`
	Passed     bool          `json:"passed"`
	FinalState AuthState     `json:"final_state,omitempty"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Elapsed    time.Duration `json:"elapsed"`
	Screenshot string        `json:"screenshot,omitempty"`
}
