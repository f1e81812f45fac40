// internal/authflow/account.go
package authflow

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"github.com/kestrelqa/authproof-cli/api/schemas"
	"github.com/kestrelqa/authproof-cli/internal/config"
)

// Generator mints per-run test accounts. Emails use the plus-addressing
// pattern <base>+NNN@<domain> so every run lands in the same inbox while
// still being a distinct account to the target system.
type Generator struct {
	cfg config.AccountConfig
	rng *rand.Rand
}

// NewGenerator creates an account generator.
func NewGenerator(cfg config.AccountConfig) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Email produces a fresh test address with a random zero-padded suffix
// between 001 and 999.
func (g *Generator) Email() string {
	n := g.rng.Intn(999) + 1
	return fmt.Sprintf("%s+%03d@%s", g.cfg.EmailBase, n, g.cfg.EmailDomain)
}

// Account produces a full test account around a fresh email.
func (g *Generator) Account() schemas.Account {
	return schemas.Account{
		Email:        g.Email(),
		Password:     g.cfg.Password,
		Organization: "Test Organization",
		FirstName:    "Test",
		LastName:     "User",
		Phone:        "5550100200",
	}
}

// IsTestEmail reports whether an address matches this generator's pattern.
// Used to keep cleanup tooling away from real inboxes.
func (g *Generator) IsTestEmail(email string) bool {
	pattern := fmt.Sprintf(`^%s\+\d{3}@%s$`,
		regexp.QuoteMeta(g.cfg.EmailBase), regexp.QuoteMeta(g.cfg.EmailDomain))
	return regexp.MustCompile(pattern).MatchString(email)
}
