package selector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDriver implements schemas.Driver with scripted visibility results.
type fakeDriver struct {
	visible   map[string]bool
	attempted []string
}

func (f *fakeDriver) Navigate(ctx context.Context, url string) error { return nil }

func (f *fakeDriver) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	f.attempted = append(f.attempted, sel)
	if f.visible[sel] {
		return nil
	}
	return errors.New("not visible")
}

func (f *fakeDriver) Fill(ctx context.Context, sel, value string) error { return nil }
func (f *fakeDriver) Click(ctx context.Context, sel string) error       { return nil }
func (f *fakeDriver) Text(ctx context.Context, sel string) (string, error) {
	return "", nil
}
func (f *fakeDriver) CurrentURL(ctx context.Context) (string, error) { return "", nil }
func (f *fakeDriver) Screenshot(ctx context.Context, name string) (string, error) {
	return "", nil
}

func TestResolveShortCircuitsOnFirstMatch(t *testing.T) {
	driver := &fakeDriver{visible: map[string]bool{"#c3": true}}
	r := NewResolver(driver, 50*time.Millisecond, zap.NewNop())

	set := CandidateSet{
		Target:     "email input",
		Candidates: []string{"#c1", "#c2", "#c3", "#c4"},
	}

	got, err := r.Resolve(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, "#c3", got)
	assert.Equal(t, []string{"#c1", "#c2", "#c3"}, driver.attempted,
		"resolution must stop at the first match and never try later candidates")
}

func TestResolveReportsNoMatchAfterAllCandidates(t *testing.T) {
	driver := &fakeDriver{visible: map[string]bool{}}
	r := NewResolver(driver, 10*time.Millisecond, zap.NewNop())

	set := CandidateSet{Target: "login button", Candidates: []string{"#a", "#b"}}

	_, err := r.Resolve(context.Background(), set)
	require.Error(t, err)

	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, "login button", noMatch.Target)
	assert.Equal(t, []string{"#a", "#b"}, noMatch.Candidates)
	assert.Len(t, driver.attempted, 2)
}

func TestResolveHonorsContextCancellation(t *testing.T) {
	driver := &fakeDriver{visible: map[string]bool{}}
	r := NewResolver(driver, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, CandidateSet{Target: "x", Candidates: []string{"#a"}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, driver.attempted)
}

func TestResolveAnyFallsThroughSets(t *testing.T) {
	driver := &fakeDriver{visible: map[string]bool{".second": true}}
	r := NewResolver(driver, 10*time.Millisecond, zap.NewNop())

	first := CandidateSet{Target: "primary", Candidates: []string{".first"}}
	second := CandidateSet{Target: "fallback", Candidates: []string{".second"}}

	target, sel, err := r.ResolveAny(context.Background(), first, second)
	require.NoError(t, err)
	assert.Equal(t, "fallback", target)
	assert.Equal(t, ".second", sel)
}

func TestResolveAnyReturnsLastError(t *testing.T) {
	driver := &fakeDriver{visible: map[string]bool{}}
	r := NewResolver(driver, 10*time.Millisecond, zap.NewNop())

	_, _, err := r.ResolveAny(context.Background(),
		CandidateSet{Target: "one", Candidates: []string{".a"}},
		CandidateSet{Target: "two", Candidates: []string{".b"}},
	)
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, "two", noMatch.Target)
}
