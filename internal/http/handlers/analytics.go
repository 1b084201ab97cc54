package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/flordomaracuja/lead-capture/internal/analytics"
	"github.com/flordomaracuja/lead-capture/internal/leadform"
	"github.com/flordomaracuja/lead-capture/internal/localstore"
	"github.com/flordomaracuja/lead-capture/pkg/logging"
)

// AnalyticsHandler relays page interaction events to the analytics sink and
// captures session attribution.
type AnalyticsHandler struct {
	notifier analytics.Notifier
	local    localstore.Store
	logger   *logging.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(notifier analytics.Notifier, local localstore.Store, logger *logging.Logger) *AnalyticsHandler {
	if notifier == nil {
		notifier = analytics.NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AnalyticsHandler{notifier: notifier, local: local, logger: logger}
}

// InteractionEvent is one page interaction reported by the capture form.
type InteractionEvent struct {
	Type        string   `json:"type"`
	FirstField  string   `json:"first_field,omitempty"`
	LastField   string   `json:"last_field,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
	// Progress percentages before and after the change; milestone events
	// are derived server side.
	PreviousPercent int `json:"previous_percent,omitempty"`
	CurrentPercent  int `json:"current_percent,omitempty"`
}

// TrackEvent converts a page interaction into analytics events.
// POST /analytics/events
func (h *AnalyticsHandler) TrackEvent(w http.ResponseWriter, r *http.Request) {
	var in InteractionEvent
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	var events []analytics.Event
	switch in.Type {
	case "form_view":
		events = append(events, analytics.FormView())
	case "form_start":
		events = append(events, analytics.FormStart(in.FirstField))
	case "form_progress":
		for _, milestone := range leadform.CrossedMilestones(in.PreviousPercent, in.CurrentPercent) {
			events = append(events, analytics.FormProgress(milestone, in.LastField))
		}
	case "preferences_selected":
		events = append(events, analytics.PreferencesSelected(in.Preferences))
	default:
		jsonError(w, "unknown event type", http.StatusBadRequest)
		return
	}

	analytics.PublishAll(r.Context(), h.notifier, events)
	writeJSON(w, http.StatusAccepted, map[string]int{"events": len(events)})
}

// CaptureAttribution records the session's marketing source. The first
// capture wins; later calls return the stored value.
// POST /analytics/attribution
func (h *AnalyticsHandler) CaptureAttribution(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Params      map[string]string `json:"params"`
		Referrer    string            `json:"referrer"`
		LandingPage string            `json:"landing_page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if body.Referrer == "" {
		body.Referrer = r.Referer()
	}

	attr := analytics.CaptureAttribution(
		r.Context(), h.local, body.Params, body.Referrer, body.LandingPage, r.UserAgent(),
	)
	writeJSON(w, http.StatusOK, attr)
}
