package analytics

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/flordomaracuja/lead-capture/internal/localstore"
)

// Attribution is the marketing-source context captured once per session.
// Read-only after capture; it only enriches analytics events and is never
// required for a successful submission.
type Attribution struct {
	UTMSource   string    `json:"utm_source"`
	UTMMedium   string    `json:"utm_medium"`
	UTMCampaign string    `json:"utm_campaign"`
	UTMTerm     string    `json:"utm_term,omitempty"`
	UTMContent  string    `json:"utm_content,omitempty"`
	Referrer    string    `json:"referrer"`
	LandingPage string    `json:"landing_page"`
	DeviceType  string    `json:"device_type"`
	Timestamp   time.Time `json:"timestamp"`
}

// CaptureAttribution normalizes raw request parameters into an Attribution
// and persists it, keeping the first capture of the session.
func CaptureAttribution(ctx context.Context, store localstore.Store, params map[string]string, referrer, landingPage, userAgent string) Attribution {
	if existing, ok := LoadAttribution(ctx, store); ok {
		return existing
	}

	attr := Attribution{
		UTMSource:   paramOr(params, "utm_source", "direct"),
		UTMMedium:   paramOr(params, "utm_medium", "none"),
		UTMCampaign: paramOr(params, "utm_campaign", "none"),
		UTMTerm:     params["utm_term"],
		UTMContent:  params["utm_content"],
		Referrer:    valueOr(referrer, "direct"),
		LandingPage: valueOr(landingPage, "/"),
		DeviceType:  deviceClass(userAgent),
		Timestamp:   time.Now().UTC(),
	}

	if store != nil {
		if data, err := json.Marshal(attr); err == nil {
			// Best effort; a failed write just means no enrichment later.
			_ = store.Set(ctx, localstore.KeyAttribution, string(data))
		}
	}
	return attr
}

// LoadAttribution returns the stored session attribution, if any.
func LoadAttribution(ctx context.Context, store localstore.Store) (Attribution, bool) {
	if store == nil {
		return Attribution{}, false
	}
	raw, err := store.Get(ctx, localstore.KeyAttribution)
	if err != nil {
		return Attribution{}, false
	}
	var attr Attribution
	if err := json.Unmarshal([]byte(raw), &attr); err != nil {
		return Attribution{}, false
	}
	return attr, true
}

func paramOr(params map[string]string, key, fallback string) string {
	if v := strings.TrimSpace(params[key]); v != "" {
		return v
	}
	return fallback
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func deviceClass(userAgent string) string {
	ua := strings.ToLower(userAgent)
	for _, marker := range []string{"mobile", "android", "iphone"} {
		if strings.Contains(ua, marker) {
			return "mobile"
		}
	}
	return "desktop"
}
