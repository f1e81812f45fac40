// internal/browser/context_utils.go
package browser

import "context"

// CombineContext creates a context that is canceled when either parent is
// done. ctx1 carries the CDP connection info (the session context), ctx2
// carries the operational deadline; deriving from ctx1 preserves the CDP
// target values chromedp needs.
func CombineContext(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	combinedCtx, cancel := context.WithCancel(ctx1)

	go func() {
		select {
		case <-ctx2.Done():
			cancel()
		case <-combinedCtx.Done():
		}
	}()

	return combinedCtx, cancel
}
