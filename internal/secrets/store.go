// internal/secrets/store.go

// Package secrets owns the durable mapping from account email to TOTP
// shared secret, and code generation from a secret. Losing a secret at
// enrollment time is unrecoverable for future logins of that account, so
// saves happen before any code is submitted.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PersistenceError reports unreadable or unwritable secret storage.
type PersistenceError struct {
	Path string
	Op   string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("secret store %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is a file-backed email -> secret mapping. The file is a flat JSON
// object rewritten in full on every save (no append log, no versioning).
//
// There is no cross-process locking: concurrent scenarios sharing one
// store file risk a lost update on save. Accepted for a single-session
// harness; a transactional store is the extension point if parallel runs
// ever matter.
type Store struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewStore creates a store backed by the given file. The file is loaded
// lazily; a missing file means an empty mapping.
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.Named("secret_store"),
	}
}

// load reads the current mapping. Missing file yields an empty map.
func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, &PersistenceError{Path: s.path, Op: "read", Err: err}
	}

	mapping := map[string]string{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &mapping); err != nil {
			return nil, &PersistenceError{Path: s.path, Op: "parse", Err: err}
		}
	}
	return mapping, nil
}

// Save merges one email/secret pair into the persisted mapping
// (load-modify-write). A later save for the same email overwrites the
// former; distinct emails never touch each other's entries.
func (s *Store) Save(email, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapping, err := s.load()
	if err != nil {
		return err
	}
	mapping[email] = secret

	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return &PersistenceError{Path: s.path, Op: "encode", Err: err}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return &PersistenceError{Path: s.path, Op: "write", Err: err}
	}

	s.logger.Info("Saved TOTP secret.", zap.String("email", email))
	return nil
}

// Get looks up the secret for an email. Absence is a valid outcome, not
// an error: it means no enrollment has happened yet for that account.
func (s *Store) Get(email string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapping, err := s.load()
	if err != nil {
		return "", false, err
	}
	secret, ok := mapping[email]
	return secret, ok, nil
}
