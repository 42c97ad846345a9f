package mssqlkit

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy controls how administrative statements are retried when the
// engine reports a transient failure (database in use, deadlock victim,
// snapshot conflict). Retries counts the attempts made after the first one,
// so a policy with Retries = 3 issues the statement up to four times.
type RetryPolicy struct {
	Retries   int           // Additional attempts after the first failure
	Delay     time.Duration // Pause between attempts
	OnFailure func(error)   // Observes every failed attempt, including the last
}

// DefaultRetryPolicy returns the policy used when callers have no special
// requirements: three retries spaced 750ms apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Retries: 3,
		Delay:   750 * time.Millisecond,
	}
}

func (p RetryPolicy) validate(op string) error {
	if p.Retries < 0 {
		return &Error{
			Code:    CodeInvalidRetryPolicy,
			Message: "retry policy retries must not be negative",
			Op:      op,
		}
	}
	if p.Delay <= 0 {
		return &Error{
			Code:    CodeInvalidRetryPolicy,
			Message: "retry policy delay must be positive",
			Op:      op,
		}
	}
	return nil
}

// withRetry runs fn until it succeeds, the policy is exhausted, or the
// caller's context ends. Cancellation is never reported to OnFailure and
// never consumes an attempt, it simply stops the loop.
func withRetry(ctx context.Context, policy RetryPolicy, op string, fn func(context.Context) error) error {
	if err := policy.validate(op); err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		werr := wrapError(err, op)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return werr
		}

		if policy.OnFailure != nil {
			policy.OnFailure(werr)
		}
		if attempt >= policy.Retries {
			return werr
		}

		timer := time.NewTimer(policy.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return wrapError(ctx.Err(), op)
		case <-timer.C:
		}
	}
}
