// Package pipeline implements the resilient lead submission flow: anti-abuse
// gating, a bounded-retry remote write, an offline fallback queue with replay
// and the analytics event trail emitted at the boundary.
package pipeline

import (
	"github.com/flordomaracuja/lead-capture/internal/analytics"
	"github.com/flordomaracuja/lead-capture/internal/leadform"
	"github.com/flordomaracuja/lead-capture/internal/leads"
)

// Outcome classifies how one submission attempt cycle terminated.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeValidationFailed Outcome = "validation_failed"
	OutcomeRateLimited      Outcome = "rate_limited"
	OutcomeDuplicateEmail   Outcome = "duplicate_email"
	// OutcomeHoneypot is reported to callers as a success so automated
	// clients cannot distinguish being blocked from being accepted.
	OutcomeHoneypot      Outcome = "honeypot"
	OutcomeQueuedOffline Outcome = "queued_offline"
	OutcomeStoreError    Outcome = "store_error"
	// OutcomeBusy means another submission from this pipeline instance was
	// already in flight and this one was ignored.
	OutcomeBusy Outcome = "busy"
)

// SubmitResult is the terminal value of one submission cycle. Either Success
// with an optional Lead, or a failure with a user-facing message; never both.
type SubmitResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Outcome Outcome     `json:"outcome"`
	Lead    *leads.Lead `json:"lead,omitempty"`
	// FieldErrors is populated only for OutcomeValidationFailed.
	FieldErrors leadform.ValidationErrors `json:"field_errors,omitempty"`
	// Events is the ordered analytics trail collected during the cycle.
	// Emission to the sink happens at the pipeline boundary; the trail is
	// returned so callers and tests can observe it.
	Events []analytics.Event `json:"-"`
}

// User-facing messages, in the site's language.
const (
	msgSuccess       = "Cadastro realizado com sucesso! Em breve entraremos em contato."
	msgHoneypot      = "Cadastro realizado com sucesso!"
	msgRateLimited   = "Aguarde um momento antes de enviar novamente."
	msgDuplicate     = "Este email já está cadastrado."
	msgStoreError    = "Erro ao realizar cadastro. Tente novamente em alguns instantes."
	msgQueuedOffline = "Seu cadastro foi salvo e será enviado assim que a conexão for restabelecida."
	msgValidation    = "Verifique os campos destacados e tente novamente."
	msgBusy          = "Envio em andamento. Aguarde a conclusão."
)
