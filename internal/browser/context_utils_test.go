package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled in time")
	}
}

func TestCombineContextCancelsWhenSessionEnds(t *testing.T) {
	session, cancelSession := context.WithCancel(context.Background())
	combined, cancel := CombineContext(session, context.Background())
	defer cancel()

	cancelSession()
	waitDone(t, combined)
}

func TestCombineContextCancelsWhenOperationEnds(t *testing.T) {
	op, cancelOp := context.WithCancel(context.Background())
	combined, cancel := CombineContext(context.Background(), op)
	defer cancel()

	cancelOp()
	waitDone(t, combined)
}

func TestCombineContextPreservesSessionValues(t *testing.T) {
	type key struct{}
	session := context.WithValue(context.Background(), key{}, "target-id")

	combined, cancel := CombineContext(session, context.Background())
	defer cancel()

	value, ok := combined.Value(key{}).(string)
	require.True(t, ok)
	assert.Equal(t, "target-id", value)
}
