// Package httputil provides HTTP helpers for remote catalog fetches.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"aipster/internal/log"
)

// RetryBaseDelay controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

// MaxRetryAfter caps how long a server-provided Retry-After is honored.
var MaxRetryAfter = 30 * time.Second

const defaultMaxRetries = 3

// DoWithRetry executes an HTTP request and retries on 429 (Too Many
// Requests) and 5xx responses with exponential backoff: RetryBaseDelay,
// then double each attempt. A Retry-After header in seconds overrides the
// computed delay, capped at MaxRetryAfter.
//
// When maxRetries is 0 the default (3) is used; a negative value disables
// retries. If the context is cancelled during a backoff wait the function
// returns ctx.Err(). After exhausting retries the last response is
// returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if client == nil {
		client = http.DefaultClient
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		log.Debug("%s %s: status %d, retrying in %v (attempt %d/%d)",
			req.Method, req.URL, resp.StatusCode, wait, attempt+1, maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		d := time.Duration(secs) * time.Second
		if d > MaxRetryAfter {
			d = MaxRetryAfter
		}
		return d
	}
	return time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
}
