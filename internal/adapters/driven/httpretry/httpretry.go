// Package httpretry wraps HTTP calls to AI providers with exponential
// backoff. Rate limits (429) and server errors (5xx) are retried; every
// other failure is returned immediately.
package httpretry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// maxRetries bounds the retry loop; with the default exponential intervals
// this keeps a failing provider call under roughly 10 seconds.
const maxRetries = 3

// StatusError is a non-2xx provider response that was not retried away.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// Do executes the request with retries. The build function is called once
// per attempt so the request body can be re-read. On success the response
// body is fully read and returned.
func Do(ctx context.Context, client *http.Client, build func() (*http.Request, error)) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := build()
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := client.Do(req)
		if err != nil {
			// Transport errors are retryable; the context guard below
			// stops the loop once the caller gives up.
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return backoff.Permanent(&StatusError{StatusCode: resp.StatusCode, Body: string(data)})
		}

		body = data
		return nil
	}

	policy := backoff.WithContext(newPolicy(), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}

func newPolicy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	return backoff.WithMaxRetries(b, maxRetries)
}
