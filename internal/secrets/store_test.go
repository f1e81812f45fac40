package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "mfa_secrets.json"), zap.NewNop())
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save("a@example.com", "JBSWY3DPEHPK3PXP"))

	secret, ok, err := s.Get("a@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", secret)
}

func TestGetAbsentIsNotAnError(t *testing.T) {
	s := newTestStore(t)

	secret, ok, err := s.Get("nobody@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, secret)
}

func TestSaveDoesNotCrossContaminate(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save("a@example.com", "JBSWY3DPEHPK3PXP"))
	require.NoError(t, s.Save("b@example.com", "KRSXG5CTMVRXEZLU"))

	secretA, ok, err := s.Get("a@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", secretA)

	secretB, ok, err := s.Get("b@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "KRSXG5CTMVRXEZLU", secretB)
}

func TestSaveOverwritesSameEmail(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save("a@example.com", "JBSWY3DPEHPK3PXP"))
	require.NoError(t, s.Save("a@example.com", "KRSXG5CTMVRXEZLU"))

	secret, ok, err := s.Get("a@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "KRSXG5CTMVRXEZLU", secret)
}

func TestRepeatedGetDoesNotMutate(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("a@example.com", "JBSWY3DPEHPK3PXP"))

	for i := 0; i < 3; i++ {
		secret, ok, err := s.Get("a@example.com")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "JBSWY3DPEHPK3PXP", secret)
	}
}

func TestPersistenceSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mfa_secrets.json")
	first := NewStore(path, zap.NewNop())
	require.NoError(t, first.Save("a@example.com", "JBSWY3DPEHPK3PXP"))

	second := NewStore(path, zap.NewNop())
	secret, ok, err := second.Get("a@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", secret)
}

func TestCorruptFileIsPersistenceError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mfa_secrets.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewStore(path, zap.NewNop())
	_, _, err := s.Get("a@example.com")
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "parse", perr.Op)

	err = s.Save("a@example.com", "JBSWY3DPEHPK3PXP")
	require.ErrorAs(t, err, &perr, "save must not clobber a file it cannot read")
}

func TestUnwritableDirIsPersistenceError(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "missing", "mfa_secrets.json"), zap.NewNop())

	err := s.Save("a@example.com", "JBSWY3DPEHPK3PXP")
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "write", perr.Op)
}
