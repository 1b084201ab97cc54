package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/flordomaracuja/lead-capture/internal/leads"
	"github.com/flordomaracuja/lead-capture/internal/localstore"
)

// QueueEntry is one submission waiting for replay. The payload is the exact
// normalized shape that would have been inserted, so replay delivers
// byte-for-byte what the original attempt carried.
type QueueEntry struct {
	ID       string         `json:"id"`
	Payload  *leads.NewLead `json:"payload"`
	QueuedAt time.Time      `json:"queued_at"`
}

// loadQueue reads the persisted queue. A missing key is an empty queue;
// corrupt data is dropped rather than wedging every future submission.
func (p *Pipeline) loadQueue(ctx context.Context) []QueueEntry {
	raw, err := p.local.Get(ctx, localstore.KeyOfflineQueue)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			p.logger.Warn("offline queue read failed", "error", err)
		}
		return nil
	}
	var entries []QueueEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		p.logger.Error("offline queue corrupted, discarding", "error", err)
		_ = p.local.Remove(ctx, localstore.KeyOfflineQueue)
		return nil
	}
	return entries
}

// storeQueue persists the queue, removing the key when it drains. The
// read-modify-write pair around it must be treated as one logical step;
// callers hold the pipeline guard for the whole pass.
func (p *Pipeline) storeQueue(ctx context.Context, entries []QueueEntry) {
	if len(entries) == 0 {
		if err := p.local.Remove(ctx, localstore.KeyOfflineQueue); err != nil {
			p.logger.Warn("offline queue remove failed", "error", err)
		}
		p.metrics.SetOfflineQueueDepth(0)
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		p.logger.Error("offline queue marshal failed", "error", err)
		return
	}
	if err := p.local.Set(ctx, localstore.KeyOfflineQueue, string(data)); err != nil {
		p.logger.Warn("offline queue write failed", "error", err)
	}
	p.metrics.SetOfflineQueueDepth(len(entries))
}

// enqueueOffline appends the payload for later replay. Returns false when
// the queue is full or persistence failed, in which case the caller surfaces
// a hard error instead of promising delayed delivery.
func (p *Pipeline) enqueueOffline(ctx context.Context, payload *leads.NewLead) bool {
	entries := p.loadQueue(ctx)
	if len(entries) >= p.queueCap {
		p.logger.Error("offline queue full, dropping submission", "cap", p.queueCap)
		return false
	}
	entries = append(entries, QueueEntry{
		ID:       uuid.NewString(),
		Payload:  payload,
		QueuedAt: p.clock().UTC(),
	})
	data, err := json.Marshal(entries)
	if err != nil {
		p.logger.Error("offline queue marshal failed", "error", err)
		return false
	}
	if err := p.local.Set(ctx, localstore.KeyOfflineQueue, string(data)); err != nil {
		p.logger.Warn("offline queue write failed", "error", err)
		return false
	}
	p.metrics.SetOfflineQueueDepth(len(entries))
	p.logger.Info("lead queued for offline replay", "entry_id", entries[len(entries)-1].ID, "depth", len(entries))
	return true
}

// ReplayOffline makes one best-effort pass over the queue in FIFO order:
// each entry gets a single insert attempt. Entries rejected as duplicates
// are dropped (delivered some other way or superseded); entries failing for
// any other reason stay queued for the next pass. Errors never surface.
//
// The pass holds the same guard as Submit. Without it, a submission queued
// while the replay is mid-pass would be erased when the replay writes back
// its stale snapshot of the queue. If a submission is already in flight the
// pass is skipped; the queue is retried on the next startup.
func (p *Pipeline) ReplayOffline(ctx context.Context) {
	if !p.tryAcquire() {
		p.logger.Info("submission in flight, skipping offline replay pass")
		return
	}
	defer p.release()

	entries := p.loadQueue(ctx)
	if len(entries) == 0 {
		return
	}
	p.logger.Info("replaying offline leads", "count", len(entries))

	var kept []QueueEntry
	for _, entry := range entries {
		_, err := p.repo.Insert(ctx, entry.Payload)
		switch {
		case err == nil:
			p.metrics.ObserveReplay("delivered")
			p.logger.Info("offline lead delivered", "entry_id", entry.ID)
		case errors.Is(err, leads.ErrDuplicateEmail):
			p.metrics.ObserveReplay("dropped_duplicate")
			p.logger.Info("offline lead already registered, dropping", "entry_id", entry.ID)
		default:
			p.metrics.ObserveReplay("kept")
			kept = append(kept, entry)
		}
	}
	p.storeQueue(ctx, kept)
}

// QueueDepth returns the number of entries waiting for replay.
func (p *Pipeline) QueueDepth(ctx context.Context) int {
	return len(p.loadQueue(ctx))
}
