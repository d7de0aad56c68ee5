package groupme

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrRemoteTimeout is returned when an asynchronous GroupMe operation is not ready before
// the poll timeout.
var ErrRemoteTimeout = errors.New("remote operation timed out")

const minPollDelay = 10 * time.Millisecond

// do runs a request, retrying transient failures with exponential backoff.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	attempts := max(c.cfg.Retry.Attempts, 1)
	delay := c.cfg.Retry.InitialDelay

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying GroupMe request",
				zap.String("method", method), zap.String("path", path),
				zap.Int("attempt", attempt+1), zap.Duration("delay", delay), zap.Error(lastErr))
			if err := sleep(ctx, delay); err != nil {
				return err
			}
			delay = c.nextDelay(delay)
		}

		err := c.doOnce(ctx, method, path, in, out)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
}

// poll calls check until it reports done, backing off between calls, for at most the
// configured poll timeout.
func (c *Client) poll(ctx context.Context, what string, check func(context.Context) (bool, error)) error {
	if c.cfg.PollTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.PollTimeout)
		defer cancel()
	}

	delay := max(c.cfg.Retry.InitialDelay, minPollDelay)
	for {
		done, err := check(ctx)
		if err == nil && done {
			return nil
		}
		if err == nil {
			err = sleep(ctx, delay)
			delay = c.nextDelay(delay)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: waiting for %s", ErrRemoteTimeout, what)
		}
		if err != nil {
			return err
		}
	}
}

func (c *Client) nextDelay(d time.Duration) time.Duration {
	d *= 2
	if c.cfg.Retry.MaxDelay > 0 && d > c.cfg.Retry.MaxDelay {
		return c.cfg.Retry.MaxDelay
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// isRetryable reports whether err is worth another attempt: rate limiting, server errors
// and network failures.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
