// internal/selector/targets.go
package selector

// Centralized locator configuration for every logical UI target the auth
// flows touch, keyed by flow. The target UI renames classes and test IDs
// between releases; when a flow stops resolving, update the lists here,
// not the flow code.

// Login page.
var (
	EmailInput = CandidateSet{
		Target: "email input",
		Candidates: []string{
			`[name="email"]`,
			`input[type="email"]`,
			`#email`,
			`input[placeholder*="email" i]`,
			`input[id*="email" i]`,
		},
	}

	PasswordInput = CandidateSet{
		Target: "password input",
		Candidates: []string{
			`[name="password"]`,
			`input[type="password"]`,
			`#password`,
			`input[placeholder*="password" i]`,
			`input[id*="password" i]`,
		},
	}

	LoginButton = CandidateSet{
		Target: "login button",
		Candidates: []string{
			`button[type="submit"]`,
			`[type="submit"]`,
		},
	}

	LoginForm = CandidateSet{
		Target:     "login form",
		Candidates: []string{`form`},
	}
)

// MFA enrollment page.
var (
	MFAMethodDropdown = CandidateSet{
		Target: "mfa method dropdown",
		Candidates: []string{
			`.css-2b097c-container`,
			`[id*="select"]`,
			`[class*="select-placeholder"]`,
			`[class*="select__placeholder"]`,
		},
	}

	MFAOptionAuthenticator = CandidateSet{
		Target: "authenticator app option",
		Candidates: []string{
			`[class*="select-option"]`,
			`[class*="select__option"]`,
		},
	}

	EnrollmentSecret = CandidateSet{
		Target: "enrollment secret",
		Candidates: []string{
			`div.m-l-xs`,
			`pre`,
			`code`,
			`.key`,
			`.secret-key`,
		},
	}

	TOTPInputPrimary = CandidateSet{
		Target:     "first totp input",
		Candidates: []string{`[name="totpCode"]`},
	}

	TOTPInputSecondary = CandidateSet{
		Target:     "second totp input",
		Candidates: []string{`[name="totpCodeSecondary"]`},
	}
)

// MFA challenge page.
var (
	// ChallengeSignal classifies the challenge state. Deliberately
	// narrower than ChallengeCodeInput: a bare input[type="text"] would
	// also match the login form.
	ChallengeSignal = CandidateSet{
		Target: "challenge signal",
		Candidates: []string{
			`[name="totpCode"]`,
			`[name="code"]`,
		},
	}

	ChallengeCodeInput = CandidateSet{
		Target: "challenge code input",
		Candidates: []string{
			`[name="code"]`,
			`[name="totpCode"]`,
			`input[type="text"]`,
		},
	}

	VerifyButton = CandidateSet{
		Target: "verify button",
		Candidates: []string{
			`button[type="submit"]`,
			`[type="submit"]`,
		},
	}
)

// Authenticated area.
var (
	DashboardLandmark = CandidateSet{
		Target: "dashboard landmark",
		Candidates: []string{
			`[data-testid="dashboard-header"]`,
			`[data-testid="get-started"]`,
			`.sidebar`,
			`.user-profile`,
		},
	}

	UserMenu = CandidateSet{
		Target: "user menu",
		Candidates: []string{
			`[data-testid="user-menu"]`,
			`.user-profile`,
			`[class*="avatar"]`,
		},
	}

	LogoutButton = CandidateSet{
		Target: "logout button",
		Candidates: []string{
			`[data-testid="logout"]`,
			`[href*="logout"]`,
			`button[id*="logout" i]`,
		},
	}
)

// Signup page.
var (
	OrganizationInput = CandidateSet{
		Target:     "organization input",
		Candidates: []string{`[name="organization"]`, `[name="companyName"]`, `input[id*="organization" i]`},
	}
	FirstNameInput = CandidateSet{
		Target:     "first name input",
		Candidates: []string{`[name="firstName"]`, `input[id*="firstName" i]`},
	}
	LastNameInput = CandidateSet{
		Target:     "last name input",
		Candidates: []string{`[name="lastName"]`, `input[id*="lastName" i]`},
	}
	PhoneInput = CandidateSet{
		Target:     "phone input",
		Candidates: []string{`[name="phone"]`, `[name="phoneNumber"]`, `input[type="tel"]`},
	}
	PasswordConfirmInput = CandidateSet{
		Target:     "password confirmation input",
		Candidates: []string{`[name="passwordConfirm"]`, `[name="confirmPassword"]`},
	}
	SignupSubmitButton = CandidateSet{
		Target:     "signup submit button",
		Candidates: []string{`button[type="submit"]`, `[type="submit"]`},
	}
)

// Activation page success markers.
var ActivationSuccess = CandidateSet{
	Target: "activation success marker",
	Candidates: []string{
		`[data-testid="activation-success"]`,
		`.success-message`,
		`.alert-success`,
	},
}

// Text signals matched against the page body, for states that have no
// stable markup at all. Keyed by flow.
var (
	EnrollmentSignalTexts = []string{
		"Your account requires you to configure at least one form of MFA",
		"MFA Setup",
		"Two-Factor Authentication",
		"2FA Setup",
	}

	ActivationSignalTexts = []string{
		"Your account has been successfully activated.",
		"Account activated",
		"activation successful",
		"verified successfully",
		"Your account has been activated",
		"Continue to login",
	}

	URLAuthenticatedFragments = []string{
		"/getStarted",
		"/dashboard",
		"/home",
		"/welcome",
	}
)
