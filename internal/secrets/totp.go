// internal/secrets/totp.go
package secrets

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
)

// InvalidSecretError reports a malformed TOTP secret.
type InvalidSecretError struct {
	Reason string
}

func (e *InvalidSecretError) Error() string {
	return fmt.Sprintf("invalid TOTP secret: %s", e.Reason)
}

// secretPattern is the base32 character class the enrollment page reveals
// secrets in: uppercase alphanumerics, no padding.
var secretPattern = regexp.MustCompile(`^[A-Z2-7]{16,64}$`)

// NormalizeSecret trims the raw text extracted from the enrollment page
// and validates it against the expected base32 shape. The page sometimes
// wraps the secret in whitespace or newlines.
func NormalizeSecret(raw string) (string, error) {
	cleaned := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	if cleaned == "" {
		return "", &InvalidSecretError{Reason: "empty secret text"}
	}
	if !secretPattern.MatchString(cleaned) {
		return "", &InvalidSecretError{Reason: fmt.Sprintf("%q is not base32 of expected length", cleaned)}
	}
	return cleaned, nil
}

// GenerateCode derives the six digit TOTP code for the secret at the given
// instant. It is a pure function of (secret, 30 second window): two calls
// within the same window return the same code. The enrollment flow relies
// on this by waiting a full window to obtain a second, different code.
func GenerateCode(secret string, at time.Time) (string, error) {
	normalized, err := NormalizeSecret(secret)
	if err != nil {
		return "", err
	}

	code, err := totp.GenerateCode(normalized, at)
	if err != nil {
		return "", &InvalidSecretError{Reason: err.Error()}
	}
	return code, nil
}
