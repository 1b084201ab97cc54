package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/flordomaracuja/lead-capture/internal/analytics"
	"github.com/flordomaracuja/lead-capture/internal/leadform"
	"github.com/flordomaracuja/lead-capture/internal/leads"
	"github.com/flordomaracuja/lead-capture/internal/localstore"
	"github.com/flordomaracuja/lead-capture/internal/observability/metrics"
	"github.com/flordomaracuja/lead-capture/pkg/logging"
)

// Pipeline owns one lead-capture flow: its remote store, its local
// persistence namespace and its analytics sink. Submissions through one
// instance are strictly sequential.
type Pipeline struct {
	repo     leads.Repository
	local    localstore.Store
	notifier analytics.Notifier
	metrics  *metrics.PipelineMetrics
	logger   *logging.Logger

	maxAttempts int
	baseDelay   time.Duration
	cooldown    time.Duration
	queueCap    int
	promoCode   string

	clock func() time.Time
	sleep func(context.Context, time.Duration)

	mu       sync.Mutex
	inFlight bool
}

// New creates a pipeline with production defaults: 3 insert attempts, 2s
// linear backoff base, 60s submission cooldown, 100-entry offline queue.
func New(repo leads.Repository, local localstore.Store, notifier analytics.Notifier, logger *logging.Logger) *Pipeline {
	if repo == nil {
		panic("pipeline: lead repository required")
	}
	if local == nil {
		local = localstore.NewMemoryStore()
	}
	if notifier == nil {
		notifier = analytics.NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		repo:        repo,
		local:       local,
		notifier:    notifier,
		logger:      logger,
		maxAttempts: 3,
		baseDelay:   2 * time.Second,
		cooldown:    60 * time.Second,
		queueCap:    100,
		promoCode:   "FLOR10",
		clock:       time.Now,
		sleep:       defaultSleep,
	}
}

// WithMetrics attaches prometheus instrumentation.
func (p *Pipeline) WithMetrics(m *metrics.PipelineMetrics) *Pipeline {
	p.metrics = m
	return p
}

// WithMaxAttempts overrides the insert attempt cap.
func (p *Pipeline) WithMaxAttempts(n int) *Pipeline {
	if n > 0 {
		p.maxAttempts = n
	}
	return p
}

// WithBaseDelay overrides the linear backoff base.
func (p *Pipeline) WithBaseDelay(d time.Duration) *Pipeline {
	if d > 0 {
		p.baseDelay = d
	}
	return p
}

// WithCooldown overrides the per-form submission cooldown window.
func (p *Pipeline) WithCooldown(d time.Duration) *Pipeline {
	if d > 0 {
		p.cooldown = d
	}
	return p
}

// WithQueueCap overrides the offline queue bound.
func (p *Pipeline) WithQueueCap(n int) *Pipeline {
	if n > 0 {
		p.queueCap = n
	}
	return p
}

// WithPromoCode overrides the promo code stamped on captured leads.
func (p *Pipeline) WithPromoCode(code string) *Pipeline {
	if code != "" {
		p.promoCode = code
	}
	return p
}

// WithClock injects a time source. Test hook.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	if clock != nil {
		p.clock = clock
	}
	return p
}

// WithSleep injects the backoff delay function. Test hook.
func (p *Pipeline) WithSleep(sleep func(context.Context, time.Duration)) *Pipeline {
	if sleep != nil {
		p.sleep = sleep
	}
	return p
}

// Submit runs one full submission cycle and returns its terminal result.
// The analytics trail collected along the way is emitted to the sink after
// the outcome is final, and also returned on the result for callers.
//
// A second Submit while one is in flight is rejected with OutcomeBusy and
// touches no collaborator, preventing double-insert races.
func (p *Pipeline) Submit(ctx context.Context, form leadform.FormData, score *analytics.ScoreInputs) *SubmitResult {
	if !p.tryAcquire() {
		return &SubmitResult{Success: false, Message: msgBusy, Outcome: OutcomeBusy}
	}
	defer p.release()

	started := p.clock()
	result := p.submit(ctx, form, score)
	p.metrics.ObserveSubmitDuration(p.clock().Sub(started).Seconds())
	p.metrics.ObserveSubmission(string(result.Outcome))

	// Event emission happens here, at the boundary, so the flow above stays
	// free of notification side effects.
	analytics.PublishAll(ctx, p.notifier, result.Events)
	return result
}

func (p *Pipeline) submit(ctx context.Context, form leadform.FormData, score *analytics.ScoreInputs) *SubmitResult {
	var events []analytics.Event

	// The honeypot check runs before validation: a bot that trips the decoy
	// field gets an indistinguishable fake success, not a list of
	// validation errors.
	if form.Honeypot != "" {
		p.logger.Warn("honeypot triggered, simulating success")
		events = append(events, analytics.FormError("honeypot", "hidden field filled"))
		return &SubmitResult{Success: true, Message: msgHoneypot, Outcome: OutcomeHoneypot, Events: events}
	}

	if errs := leadform.Validate(form); errs.HasErrors() {
		events = append(events, analytics.FormError("validation", msgValidation))
		return &SubmitResult{
			Success:     false,
			Message:     msgValidation,
			Outcome:     OutcomeValidationFailed,
			FieldErrors: errs,
			Events:      events,
		}
	}

	if !p.cooldownElapsed(ctx) {
		events = append(events, analytics.FormError("rate_limit", msgRateLimited))
		return &SubmitResult{Success: false, Message: msgRateLimited, Outcome: OutcomeRateLimited, Events: events}
	}

	events = append(events, analytics.FormSubmit(leadform.FilledFieldCount(form)))

	switch p.runDuplicateCheck(ctx, form) {
	case gateDuplicate:
		events = append(events, analytics.FormError("email_duplicate", msgDuplicate))
		return &SubmitResult{Success: false, Message: msgDuplicate, Outcome: OutcomeDuplicateEmail, Events: events}
	case gateInconclusive:
		// Fail open; the store's unique constraint is the backstop.
	}

	payload := leads.Normalize(form)
	payload.PromoCode = p.promoCode

	lead, err := p.insertWithRetry(ctx, payload)
	if err == nil {
		p.recordSubmission(ctx)
		p.clearDraft(ctx)
		events = append(events, analytics.GenerateLead(p.leadSource(ctx)))
		if score != nil {
			tier := analytics.CalculateLeadScore(*score)
			events = append(events, analytics.HighIntentLead(tier, *score))
		}
		p.logger.Info("lead created", "id", lead.ID, "email", lead.Email)
		return &SubmitResult{Success: true, Message: msgSuccess, Outcome: OutcomeSuccess, Lead: lead, Events: events}
	}

	if errors.Is(err, leads.ErrDuplicateEmail) {
		events = append(events, analytics.FormError("email_duplicate", msgDuplicate))
		return &SubmitResult{Success: false, Message: msgDuplicate, Outcome: OutcomeDuplicateEmail, Events: events}
	}

	// Retries exhausted. Only a store that is actually unreachable warrants
	// the offline queue; an online store failing is surfaced to the user.
	if p.repo.Ping(ctx) != nil && p.enqueueOffline(ctx, payload) {
		return &SubmitResult{Success: true, Message: msgQueuedOffline, Outcome: OutcomeQueuedOffline, Events: events}
	}

	p.logger.Error("lead insert failed after retries", "error", err)
	events = append(events, analytics.FormError("store_error", err.Error()))
	return &SubmitResult{Success: false, Message: msgStoreError, Outcome: OutcomeStoreError, Events: events}
}

// tryAcquire claims the pipeline for one exclusive pass. Submit and
// ReplayOffline both read, rewrite and remove the offline queue key, so the
// guard covers both: their queue accesses must never interleave.
func (p *Pipeline) tryAcquire() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight {
		return false
	}
	p.inFlight = true
	return true
}

func (p *Pipeline) release() {
	p.mu.Lock()
	p.inFlight = false
	p.mu.Unlock()
}

// leadSource reads the session attribution for event enrichment.
func (p *Pipeline) leadSource(ctx context.Context) string {
	if attr, ok := analytics.LoadAttribution(ctx, p.local); ok {
		return attr.UTMSource
	}
	return "direct"
}
