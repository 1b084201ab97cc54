// Package analytics defines the pipeline event trail and the fire-and-forget
// sinks it is delivered to. Events mirror the GA4 vocabulary used on the
// public site so the downstream warehouse can join both sources.
package analytics

import (
	"strings"
	"time"
)

// Event is one analytics notification. Events are collected in order during
// a submission and emitted at the pipeline boundary; delivery is best-effort
// and never blocks or fails the pipeline.
type Event struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
	At     time.Time      `json:"at"`
}

func newEvent(name string, params map[string]any) Event {
	return Event{Name: name, Params: params, At: time.Now().UTC()}
}

// FormView marks the capture form entering the viewport.
func FormView() Event {
	return newEvent("form_view", map[string]any{
		"form_name":     "lead_capture",
		"form_location": "landing_page",
	})
}

// FormStart marks the first field focus of a session.
func FormStart(firstField string) Event {
	return newEvent("form_start", map[string]any{
		"form_name":   "lead_capture",
		"first_field": firstField,
	})
}

// FormProgress marks a 33/66/100 completion milestone.
func FormProgress(percentage int, lastField string) Event {
	return newEvent("form_progress", map[string]any{
		"form_name":            "lead_capture",
		"progress_percentage":  percentage,
		"last_field_completed": lastField,
	})
}

// PreferencesSelected marks a change to the preference tag set.
func PreferencesSelected(prefs []string) Event {
	return newEvent("preferences_selected", map[string]any{
		"preferences_count": len(prefs),
		"preferences":       strings.Join(prefs, ","),
	})
}

// FormSubmit marks a submission attempt entering the pipeline.
func FormSubmit(fieldsFilled int) Event {
	return newEvent("form_submit", map[string]any{
		"form_name":          "lead_capture",
		"form_fields_filled": fieldsFilled,
	})
}

// GenerateLead marks a successful capture. Source comes from attribution.
func GenerateLead(leadSource string) Event {
	if leadSource == "" {
		leadSource = "direct"
	}
	return newEvent("generate_lead", map[string]any{
		"currency":    "BRL",
		"value":       0,
		"lead_source": leadSource,
	})
}

// FormError marks a failed submission with a machine-readable reason code.
func FormError(errorType, message string) Event {
	return newEvent("form_error", map[string]any{
		"form_name":     "lead_capture",
		"error_type":    errorType,
		"error_message": message,
	})
}

// HighIntentLead carries the computed quality tier of a captured lead.
func HighIntentLead(tier ScoreTier, in ScoreInputs) Event {
	return newEvent("high_intent_lead", map[string]any{
		"quality_score": string(tier),
		"time_on_page":  in.TimeOnPageSeconds,
		"scroll_depth":  in.ScrollDepthPercent,
		"interactions":  in.CTAClicks + in.SectionViews,
	})
}
