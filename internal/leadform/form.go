// Package leadform holds the lead-capture form model, its field validators
// and the input formatters shared by the submission pipeline and the HTTP
// surface. User-facing messages are in Portuguese to match the public site.
package leadform

// FormData is the mutable draft a visitor edits before submitting.
type FormData struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Birthday    string   `json:"birthday,omitempty"` // DD/MM/YYYY, optional
	Preferences []string `json:"preferences,omitempty"`
	Terms       bool     `json:"terms"`
	// Honeypot must stay empty; bots that fill hidden fields reveal themselves.
	Honeypot string `json:"website,omitempty"`
}

// ValidationErrors maps field names to user-facing messages. A missing key
// means the field is valid. The map is rebuilt in full on every pass.
type ValidationErrors map[string]string

// HasErrors reports whether any field failed validation.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// PreferenceOptions lists the selectable interest tags on the public form.
var PreferenceOptions = []string{
	"Pratos Executivos",
	"Marmitas",
	"Sobremesas",
	"Bebidas",
	"Delivery",
	"Eventos & Encomendas",
}

// trackedFields is the number of fields counted toward form progress:
// name, email, phone, birthday and at least one preference.
const trackedFields = 5

// FilledFieldCount returns how many of the tracked fields are filled in.
// Phone only counts once it has enough digits to be plausible.
func FilledFieldCount(d FormData) int {
	count := 0
	if trimSpace(d.Name) != "" {
		count++
	}
	if trimSpace(d.Email) != "" {
		count++
	}
	if len(digitsOnly(d.Phone)) >= 10 {
		count++
	}
	if d.Birthday != "" {
		count++
	}
	if len(d.Preferences) > 0 {
		count++
	}
	return count
}

// ProgressPercent returns the completion percentage over the tracked fields,
// rounded to the nearest integer.
func ProgressPercent(d FormData) int {
	return (FilledFieldCount(d)*100 + trackedFields/2) / trackedFields
}

// LastCompletedField returns the most significant filled field in a fixed
// priority order. Used only to annotate analytics events.
func LastCompletedField(d FormData) string {
	switch {
	case len(d.Preferences) > 0:
		return "preferences"
	case d.Birthday != "":
		return "birthday"
	case len(digitsOnly(d.Phone)) >= 10:
		return "phone"
	case trimSpace(d.Email) != "":
		return "email"
	case trimSpace(d.Name) != "":
		return "name"
	default:
		return ""
	}
}

// CrossedMilestones returns the progress milestones (33, 66, 100) newly
// reached when progress moves from prev to curr, in ascending order.
func CrossedMilestones(prev, curr int) []int {
	var crossed []int
	for _, m := range []int{33, 66, 100} {
		if curr >= m && prev < m {
			crossed = append(crossed, m)
		}
	}
	return crossed
}
