// Package httputil provides HTTP helpers shared by the backend client.
//
// # Retry
//
// [Retry] runs an operation with exponential backoff. Only failures wrapped in
// [RetryableError] are retried; anything else returns immediately:
//
//	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
//	    resp, err := client.R().Get("/rooms")
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    if httputil.Transient(resp.StatusCode()) {
//	        return &httputil.RetryableError{Err: fmt.Errorf("status %d", resp.StatusCode())}
//	    }
//	    return nil
//	})
//
// Retries are meant for idempotent reads. Submitting a maintenance request is
// never retried, since a timed-out POST may already have been stored.
package httputil
