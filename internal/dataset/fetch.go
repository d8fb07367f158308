package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/KaramelBytes/hospiviz-cli/internal/logging"
)

// defaultMaxBody bounds a downloaded dataset.
const defaultMaxBody = 64 << 20

// Fetcher downloads remote datasets with a timeout and retry/backoff on
// transient failures (network timeouts, 429, 5xx).
type Fetcher struct {
	httpClient       *http.Client
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	maxBody          int64
	Log              *logging.Logger
}

// NewFetcher allows customizing HTTP timeout and retry/backoff behavior.
// Non-positive values fall back to 60s, 3 attempts, 500ms and 4s.
func NewFetcher(httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration) *Fetcher {
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}
	if retryMax <= 0 {
		retryMax = 3
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 4 * time.Second
	}
	return &Fetcher{
		httpClient:       &http.Client{Timeout: httpTimeout},
		retryMaxAttempts: retryMax,
		retryBaseDelay:   baseDelay,
		retryMaxDelay:    maxDelay,
		maxBody:          defaultMaxBody,
	}
}

// Fetch returns the body of a successful GET on location.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	backoff := f.retryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= f.retryMaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", "hospiviz-cli")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = &UnreachableError{Location: location, Err: err}
			if isRetryableNetErr(err) && attempt < f.retryMaxAttempts {
				f.Log.Debugf("fetch %s: attempt %d failed: %v", location, attempt, err)
				if err := sleepCtx(ctx, f.capped(withJitter(backoff))); err != nil {
					return nil, err
				}
				backoff *= 2
				continue
			}
			return nil, lastErr
		}
		body, retryAfter, err := f.readResponse(resp, location)
		if err == nil {
			return body, nil
		}
		lastErr = err
		var se *StatusError
		if errors.As(err, &se) && se.Retryable() && attempt < f.retryMaxAttempts {
			wait := f.capped(withJitter(backoff))
			if retryAfter > 0 {
				wait = f.capped(retryAfter)
			}
			f.Log.Debugf("fetch %s: %s, retrying in %s", location, se.Status, wait)
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}
			backoff *= 2
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

func (f *Fetcher) readResponse(resp *http.Response, location string) ([]byte, time.Duration, error) {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		var retryAfter time.Duration
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := parseRetryAfterSeconds(v); err == nil && secs > 0 {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		return nil, retryAfter, &StatusError{
			Location:   location,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}
	limit := f.maxBody
	if limit <= 0 {
		limit = defaultMaxBody
	}
	// One byte past the limit tells a truncated body from one that fits exactly.
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, 0, &UnreachableError{Location: location, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > limit {
		return nil, 0, &MalformedError{Source: location, Err: fmt.Errorf("dataset exceeds %d bytes", limit)}
	}
	return body, 0, nil
}

func (f *Fetcher) capped(d time.Duration) time.Duration {
	if d > f.retryMaxDelay {
		return f.retryMaxDelay
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	// EOF or connection reset
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNRESET)
}

// parseRetryAfterSeconds interprets a Retry-After value as seconds or an HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		return s, nil
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return 0, err
	}
	d := time.Until(t)
	if d < 0 {
		d = 0
	}
	return int(d.Seconds()), nil
}

// withJitter returns a backoff duration with +/- 20% jitter applied.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}
