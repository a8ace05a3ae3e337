// Package async provides a small future primitive for bounding the duration
// of blocking work.
//
// Exec runs a function in its own goroutine and returns an ExecFuture that
// callers await with or without a deadline:
//
//	fut := async.Exec(ctx, payload, process)
//
//	if err := fut.AwaitWithTimeout(5 * time.Second); err != nil {
//	    if errors.Is(err, async.ErrTimeout) {
//	        // the work is still running; its result will be discarded
//	    }
//	}
//
// AwaitWithTimeout does not cancel the underlying work. Pass a context with
// a deadline to Exec for cooperative cancellation, and treat a timeout as
// "result abandoned", not "work stopped".
package async
