package leadform

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// disposableDomains is a fixed deny-list of throwaway email providers.
var disposableDomains = map[string]struct{}{
	"mailinator.com":         {},
	"guerrillamail.com":      {},
	"tempmail.com":           {},
	"throwaway.email":        {},
	"yopmail.com":            {},
	"sharklasers.com":        {},
	"guerrillamailblock.com": {},
	"grr.la":                 {},
	"dispostable.com":        {},
	"trashmail.com":          {},
	"fakeinbox.com":          {},
	"maildrop.cc":            {},
	"temp-mail.org":          {},
	"10minutemail.com":       {},
	"minutemail.com":         {},
	"tempail.com":            {},
	"emailondeck.com":        {},
	"getnada.com":            {},
	"mohmal.com":             {},
	"burnermail.io":          {},
}

// ValidateName checks the visitor name: required, at least 3 characters,
// letters (including accented ones) and spaces only.
func ValidateName(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "Nome é obrigatório"
	}
	if len([]rune(trimmed)) < 3 {
		return "Nome deve ter pelo menos 3 caracteres"
	}
	for _, r := range trimmed {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return "Nome deve conter apenas letras e espaços"
		}
	}
	return ""
}

// ValidateEmail checks the email shape and rejects disposable domains.
func ValidateEmail(value string) string {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "Email é obrigatório"
	}
	if !emailPattern.MatchString(trimmed) {
		return "Formato de email inválido"
	}
	domain := trimmed[strings.LastIndexByte(trimmed, '@')+1:]
	if _, blocked := disposableDomains[domain]; blocked {
		return "Por favor, use um email permanente"
	}
	return ""
}

// ValidatePhone checks the Brazilian phone convention: DDD plus the number,
// 10 digits for landlines and 11 for mobiles.
func ValidatePhone(value string) string {
	digits := digitsOnly(value)
	if digits == "" {
		return "Telefone é obrigatório"
	}
	if len(digits) < 10 || len(digits) > 11 {
		return "Número de telefone inválido"
	}
	return ""
}

// ValidateBirthday checks an optional DD/MM/YYYY date: a real calendar date,
// year between 1900 and now, and an age of at least 18 years.
func ValidateBirthday(value string) string {
	return validateBirthdayAt(value, time.Now())
}

func validateBirthdayAt(value string, now time.Time) string {
	if value == "" {
		return "" // optional field
	}
	day, month, year, ok := splitBirthday(value)
	if !ok {
		return "Formato inválido (DD/MM/AAAA)"
	}
	if month < 1 || month > 12 {
		return "Mês inválido"
	}
	if day < 1 || day > 31 {
		return "Dia inválido"
	}
	if year < 1900 || year > now.Year() {
		return "Ano inválido"
	}
	// time.Date normalizes impossible dates (Feb 30 becomes Mar 1), so a
	// round-trip mismatch means the calendar date does not exist.
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != time.Month(month) {
		return "Data inválida"
	}

	age := now.Year() - year
	if int(now.Month()) < month || (int(now.Month()) == month && now.Day() < day) {
		age--
	}
	if age < 18 {
		return "Idade mínima: 18 anos"
	}
	return ""
}

// Validate runs every field validator and returns the full error map.
// Keys absent from the map denote valid fields.
func Validate(d FormData) ValidationErrors {
	errs := ValidationErrors{}
	if msg := ValidateName(d.Name); msg != "" {
		errs["name"] = msg
	}
	if msg := ValidateEmail(d.Email); msg != "" {
		errs["email"] = msg
	}
	if msg := ValidatePhone(d.Phone); msg != "" {
		errs["phone"] = msg
	}
	if msg := ValidateBirthday(d.Birthday); msg != "" {
		errs["birthday"] = msg
	}
	if !d.Terms {
		errs["terms"] = "Você precisa aceitar os termos para continuar"
	}
	return errs
}

func splitBirthday(value string) (day, month, year int, ok bool) {
	if len(value) != 10 || value[2] != '/' || value[5] != '/' {
		return 0, 0, 0, false
	}
	parse := func(s string) (int, bool) {
		n := 0
		for _, c := range s {
			if c < '0' || c > '9' {
				return 0, false
			}
			n = n*10 + int(c-'0')
		}
		return n, true
	}
	var dOK, mOK, yOK bool
	day, dOK = parse(value[0:2])
	month, mOK = parse(value[3:5])
	year, yOK = parse(value[6:10])
	return day, month, year, dOK && mOK && yOK
}
