package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/flordomaracuja/lead-capture/internal/analytics"
	"github.com/flordomaracuja/lead-capture/internal/leadform"
	"github.com/flordomaracuja/lead-capture/internal/notify"
	"github.com/flordomaracuja/lead-capture/internal/pipeline"
	"github.com/flordomaracuja/lead-capture/pkg/logging"
)

// LeadsHandler exposes the public lead capture endpoint.
type LeadsHandler struct {
	pipeline *pipeline.Pipeline
	notifier *notify.Service
	logger   *logging.Logger
}

// NewLeadsHandler creates a new leads handler. The notify service may be nil
// when staff notifications are disabled.
func NewLeadsHandler(p *pipeline.Pipeline, notifier *notify.Service, logger *logging.Logger) *LeadsHandler {
	if p == nil {
		panic("handlers: pipeline is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LeadsHandler{
		pipeline: p,
		notifier: notifier,
		logger:   logger,
	}
}

// SubmitLeadRequest is the request body for the public capture form.
// The form fields arrive at the top level; behavioral signals, when the page
// collected them, arrive under "signals".
type SubmitLeadRequest struct {
	leadform.FormData
	Signals *analytics.ScoreInputs `json:"signals,omitempty"`
}

// SubmitLeadResponse mirrors the pipeline result for the browser.
type SubmitLeadResponse struct {
	Success     bool                      `json:"success"`
	Message     string                    `json:"message"`
	Outcome     string                    `json:"outcome"`
	Lead        any                       `json:"lead,omitempty"`
	FieldErrors leadform.ValidationErrors `json:"field_errors,omitempty"`
}

// SubmitLead runs the capture pipeline for one form submission.
// POST /leads/web
func (h *LeadsHandler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	var req SubmitLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	result := h.pipeline.Submit(r.Context(), req.FormData, req.Signals)

	if result.Outcome == pipeline.OutcomeSuccess && h.notifier != nil {
		// Fire and forget; staff email must never delay the response.
		go h.notifier.NotifyNewLead(r.Context(), result.Lead)
	}

	resp := SubmitLeadResponse{
		Success:     result.Success,
		Message:     result.Message,
		Outcome:     string(result.Outcome),
		FieldErrors: result.FieldErrors,
	}
	if result.Lead != nil {
		resp.Lead = result.Lead
	}

	// A tripped honeypot must be indistinguishable from a real success on
	// the wire, status and body alike.
	if result.Outcome == pipeline.OutcomeHoneypot {
		resp.Outcome = string(pipeline.OutcomeSuccess)
	}

	writeJSON(w, statusFor(result.Outcome), resp)
}

// SaveDraft stores the partially filled form for later resumption.
// PUT /leads/draft
func (h *LeadsHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var form leadform.FormData
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := h.pipeline.SaveDraft(r.Context(), form); err != nil {
		jsonError(w, "draft not saved", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDraft returns the saved draft, or 404 when none exists.
// GET /leads/draft
func (h *LeadsHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	form, ok := h.pipeline.LoadDraft(r.Context())
	if !ok {
		jsonError(w, "no draft", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// statusFor maps a pipeline outcome to an HTTP status.
func statusFor(outcome pipeline.Outcome) int {
	switch outcome {
	case pipeline.OutcomeSuccess, pipeline.OutcomeHoneypot:
		return http.StatusCreated
	case pipeline.OutcomeQueuedOffline:
		return http.StatusAccepted
	case pipeline.OutcomeValidationFailed:
		return http.StatusBadRequest
	case pipeline.OutcomeRateLimited:
		return http.StatusTooManyRequests
	case pipeline.OutcomeDuplicateEmail, pipeline.OutcomeBusy:
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}
