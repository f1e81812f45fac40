package schemas

import (
	"context"
	"time"
)

// Driver is the browser collaborator consumed by the orchestration core.
// It exposes only the primitives the auth flows need; browser lifecycle
// (launch, allocator, teardown) is owned by whoever constructs the
// implementation, never by the core.
type Driver interface {
	// Navigate loads the URL and waits for the page to settle.
	Navigate(ctx context.Context, url string) error

	// WaitVisible blocks until the element matching the selector is
	// visible, or the timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// Fill writes text into the element matching the selector.
	Fill(ctx context.Context, selector, value string) error

	// Click clicks the element matching the selector.
	Click(ctx context.Context, selector string) error

	// Text returns the trimmed text content of the element matching the
	// selector.
	Text(ctx context.Context, selector string) (string, error)

	// CurrentURL reports the location of the active page.
	CurrentURL(ctx context.Context) (string, error)

	// Screenshot captures a full-page screenshot and returns the path it
	// was written to. Failures here are diagnostic-only and must never
	// mask the error that triggered the capture.
	Screenshot(ctx context.Context, name string) (string, error)
}
