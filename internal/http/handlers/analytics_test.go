package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flordomaracuja/lead-capture/internal/analytics"
	"github.com/flordomaracuja/lead-capture/internal/localstore"
)

type recordingNotifier struct {
	events []analytics.Event
}

func (n *recordingNotifier) Publish(ctx context.Context, event analytics.Event) {
	n.events = append(n.events, event)
}

func postEvent(t *testing.T, h *AnalyticsHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analytics/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.TrackEvent(rec, req)
	return rec
}

func TestTrackEventFormView(t *testing.T) {
	sink := &recordingNotifier{}
	h := NewAnalyticsHandler(sink, localstore.NewMemoryStore(), nil)

	rec := postEvent(t, h, `{"type": "form_view"}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(sink.events) != 1 || sink.events[0].Name != "form_view" {
		t.Errorf("events = %v", sink.events)
	}
}

func TestTrackEventProgressMilestones(t *testing.T) {
	sink := &recordingNotifier{}
	h := NewAnalyticsHandler(sink, localstore.NewMemoryStore(), nil)

	// Jumping from 20% to 80% crosses the 33 and 66 milestones.
	rec := postEvent(t, h, `{"type": "form_progress", "previous_percent": 20, "current_percent": 80, "last_field": "phone"}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(sink.events) != 2 {
		t.Fatalf("expected 2 milestone events, got %d", len(sink.events))
	}
	if sink.events[0].Params["progress_percentage"] != 33 || sink.events[1].Params["progress_percentage"] != 66 {
		t.Errorf("milestones = %v", sink.events)
	}

	// Same percentages again: no milestone crossed, nothing emitted.
	sink.events = nil
	postEvent(t, h, `{"type": "form_progress", "previous_percent": 80, "current_percent": 80}`)
	if len(sink.events) != 0 {
		t.Errorf("expected no events, got %v", sink.events)
	}
}

func TestTrackEventUnknownType(t *testing.T) {
	h := NewAnalyticsHandler(&recordingNotifier{}, localstore.NewMemoryStore(), nil)

	rec := postEvent(t, h, `{"type": "mystery"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCaptureAttributionFirstWins(t *testing.T) {
	store := localstore.NewMemoryStore()
	h := NewAnalyticsHandler(&recordingNotifier{}, store, nil)

	post := func(body string) analytics.Attribution {
		req := httptest.NewRequest(http.MethodPost, "/analytics/attribution", strings.NewReader(body))
		req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone)")
		rec := httptest.NewRecorder()
		h.CaptureAttribution(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var attr analytics.Attribution
		if err := json.Unmarshal(rec.Body.Bytes(), &attr); err != nil {
			t.Fatal(err)
		}
		return attr
	}

	first := post(`{"params": {"utm_source": "instagram", "utm_campaign": "promo"}, "landing_page": "/promocao"}`)
	if first.UTMSource != "instagram" || first.DeviceType != "mobile" {
		t.Errorf("first capture = %+v", first)
	}

	second := post(`{"params": {"utm_source": "google"}}`)
	if second.UTMSource != "instagram" {
		t.Errorf("second capture must return the stored attribution, got %+v", second)
	}
}
