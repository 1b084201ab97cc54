package pipeline

import (
	"context"
	"strconv"
	"time"

	"github.com/flordomaracuja/lead-capture/internal/leadform"
	"github.com/flordomaracuja/lead-capture/internal/leads"
	"github.com/flordomaracuja/lead-capture/internal/localstore"
)

// gateDecision is the verdict of the duplicate-email gate stage.
type gateDecision int

const (
	gatePass gateDecision = iota
	gateDuplicate
	// gateInconclusive means the duplicate query failed. The gate fails
	// open; the store's unique constraint is the backstop.
	gateInconclusive
)

func (d gateDecision) String() string {
	switch d {
	case gatePass:
		return "pass"
	case gateDuplicate:
		return "duplicate"
	case gateInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// runDuplicateCheck is the third anti-abuse stage, after the honeypot and
// cooldown checks in submit. It is the only stage that contacts the remote
// store before the insert.
func (p *Pipeline) runDuplicateCheck(ctx context.Context, form leadform.FormData) gateDecision {
	exists, err := p.repo.ExistsByEmail(ctx, leads.NormalizeEmail(form.Email))
	if err != nil {
		p.logger.Warn("duplicate check inconclusive, proceeding", "error", err)
		return gateInconclusive
	}
	if exists {
		return gateDuplicate
	}
	return gatePass
}

// cooldownElapsed reads the last successful-submission stamp. A missing or
// unreadable stamp counts as elapsed: storage failures never block a visitor.
func (p *Pipeline) cooldownElapsed(ctx context.Context) bool {
	raw, err := p.local.Get(ctx, localstore.KeyLastSubmit)
	if err != nil {
		return true
	}
	lastUnix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true
	}
	return p.clock().Sub(time.Unix(lastUnix, 0)) >= p.cooldown
}

// recordSubmission stamps the cooldown window after a successful write.
// Best effort: a failed write only weakens rate limiting for this visitor.
func (p *Pipeline) recordSubmission(ctx context.Context) {
	stamp := strconv.FormatInt(p.clock().Unix(), 10)
	if err := p.local.Set(ctx, localstore.KeyLastSubmit, stamp); err != nil {
		p.logger.Warn("failed to record submission stamp", "error", err)
	}
}
