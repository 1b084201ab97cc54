package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/flordomaracuja/lead-capture/internal/leads"
)

// insertWithRetry attempts the remote insert up to maxAttempts times with
// linearly increasing backoff (attempt index times the base delay). A
// duplicate-email rejection aborts immediately: retrying cannot change it.
func (p *Pipeline) insertWithRetry(ctx context.Context, payload *leads.NewLead) (*leads.Lead, error) {
	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		p.metrics.ObserveInsertAttempt()

		lead, err := p.repo.Insert(ctx, payload)
		if err == nil {
			return lead, nil
		}
		if errors.Is(err, leads.ErrDuplicateEmail) {
			return nil, err
		}
		lastErr = err
		p.logger.Warn("lead insert failed",
			"attempt", attempt,
			"max_attempts", p.maxAttempts,
			"error", err,
		)
		if attempt < p.maxAttempts {
			p.sleep(ctx, time.Duration(attempt)*p.baseDelay)
		}
	}
	return nil, lastErr
}

// defaultSleep waits for the given duration or until the context is done.
func defaultSleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
