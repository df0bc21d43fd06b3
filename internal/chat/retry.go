package chat

import (
	"context"
	"time"

	"github.com/example/standup-bot/internal/logging"
)

// RetryPolicy retries a failing delivery with exponential backoff: BaseDelay
// before the first retry, twice that before the next, capped at MaxDelay.
// A zero BaseDelay retries immediately.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryPolicy matches the trigger job's tolerance: a user is prompted
// a tick later rather than skipped, so a short retry budget is enough.
var DefaultRetryPolicy = RetryPolicy{
	Attempts:  3,
	BaseDelay: time.Second,
	MaxDelay:  30 * time.Second,
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := p.BaseDelay << attempt
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

func (p RetryPolicy) run(ctx context.Context, op string, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}

		delay := p.backoff(attempt)
		logging.L().WithError(err).WithField("op", op).
			Warnf("chat delivery failed, retrying in %s", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// RetryingSender decorates a Sender with a RetryPolicy. It wraps only the
// messaging collaborator; storage operations are never retried here.
type RetryingSender struct {
	next   Sender
	policy RetryPolicy
}

// NewRetryingSender creates a new RetryingSender.
func NewRetryingSender(next Sender, policy RetryPolicy) *RetryingSender {
	return &RetryingSender{next: next, policy: policy}
}

// Create delivers the message, retrying per the policy.
func (s *RetryingSender) Create(ctx context.Context, msg Message) (string, error) {
	var ref string
	err := s.policy.run(ctx, "create", func() error {
		var err error
		ref, err = s.next.Create(ctx, msg)
		return err
	})
	return ref, err
}

// Update edits an earlier message, retrying per the policy.
func (s *RetryingSender) Update(ctx context.Context, ref string, msg Message) error {
	return s.policy.run(ctx, "update", func() error {
		return s.next.Update(ctx, ref, msg)
	})
}
