package leads

import (
	"testing"

	"github.com/flordomaracuja/lead-capture/internal/leadform"
)

func TestNormalize(t *testing.T) {
	payload := Normalize(leadform.FormData{
		Name:     "Ana Souza",
		Email:    "ANA@Example.com",
		Phone:    "(11) 98888-7777",
		Birthday: "",
		Terms:    true,
	})

	if payload.Email != "ana@example.com" {
		t.Errorf("email = %q, want ana@example.com", payload.Email)
	}
	if payload.Phone != "11988887777" {
		t.Errorf("phone = %q, want 11988887777", payload.Phone)
	}
	if payload.Birthday != "" {
		t.Errorf("birthday = %q, want empty", payload.Birthday)
	}
	if payload.Preferences != "" {
		t.Errorf("preferences = %q, want empty", payload.Preferences)
	}
}

func TestNormalizeFullForm(t *testing.T) {
	payload := Normalize(leadform.FormData{
		Name:        "  João Conceição ",
		Email:       " joao@example.com.br ",
		Phone:       "(21) 3333-4444",
		Birthday:    "15/03/1990",
		Preferences: []string{"Marmitas", "Delivery"},
	})

	if payload.Name != "João Conceição" {
		t.Errorf("name = %q", payload.Name)
	}
	if payload.Phone != "2133334444" {
		t.Errorf("phone = %q, want 2133334444", payload.Phone)
	}
	if payload.Birthday != "1990-03-15" {
		t.Errorf("birthday = %q, want 1990-03-15", payload.Birthday)
	}
	if payload.Preferences != "Marmitas, Delivery" {
		t.Errorf("preferences = %q", payload.Preferences)
	}
}
