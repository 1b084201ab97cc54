package leads

import (
	"strings"
	"time"

	"github.com/flordomaracuja/lead-capture/internal/leadform"
)

// Lead is the persisted record in the remote store. The pipeline only ever
// inserts leads; it never mutates or deletes them.
type Lead struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Birthday    string    `json:"birthday,omitempty"`    // ISO YYYY-MM-DD
	Preferences string    `json:"preferences,omitempty"` // comma-joined tags
	PromoCode   string    `json:"promo_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewLead is the normalized insert payload sent to the remote store. It is
// also the shape persisted in the offline queue, so a queued submission
// replays byte-for-byte what would have been inserted.
type NewLead struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Birthday    string `json:"birthday,omitempty"`
	Preferences string `json:"preferences,omitempty"`
	PromoCode   string `json:"promo_code,omitempty"`
}

// Normalize builds the insert payload from validated form data: fields are
// sanitized, the email lower-cased, the phone reduced to digits, the birthday
// converted to ISO form and the preference tags joined.
func Normalize(d leadform.FormData) *NewLead {
	payload := &NewLead{
		Name:     leadform.Sanitize(d.Name),
		Email:    strings.ToLower(leadform.Sanitize(d.Email)),
		Phone:    stripNonDigits(d.Phone),
		Birthday: leadform.BirthdayToISO(d.Birthday),
	}
	if len(d.Preferences) > 0 {
		payload.Preferences = strings.Join(d.Preferences, ", ")
	}
	return payload
}

// NormalizeEmail applies the same email normalization as Normalize, for use
// by the duplicate check.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
