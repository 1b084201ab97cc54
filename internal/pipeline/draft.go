package pipeline

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/flordomaracuja/lead-capture/internal/leadform"
	"github.com/flordomaracuja/lead-capture/internal/localstore"
)

// SaveDraft persists the partially filled form so the visitor can resume
// after a reload. Best effort, like everything else on the local store.
func (p *Pipeline) SaveDraft(ctx context.Context, form leadform.FormData) error {
	form.Honeypot = ""
	data, err := json.Marshal(form)
	if err != nil {
		return err
	}
	if err := p.local.Set(ctx, localstore.KeyFormDraft, string(data)); err != nil {
		p.logger.Warn("draft save failed", "error", err)
		return err
	}
	return nil
}

// LoadDraft returns the saved draft, if any. Corrupt drafts are discarded.
func (p *Pipeline) LoadDraft(ctx context.Context) (leadform.FormData, bool) {
	raw, err := p.local.Get(ctx, localstore.KeyFormDraft)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			p.logger.Warn("draft read failed", "error", err)
		}
		return leadform.FormData{}, false
	}
	var form leadform.FormData
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		p.logger.Warn("draft corrupted, discarding", "error", err)
		_ = p.local.Remove(ctx, localstore.KeyFormDraft)
		return leadform.FormData{}, false
	}
	return form, true
}

// clearDraft removes the saved draft after a submission went through.
func (p *Pipeline) clearDraft(ctx context.Context) {
	if err := p.local.Remove(ctx, localstore.KeyFormDraft); err != nil {
		p.logger.Warn("draft remove failed", "error", err)
	}
}
