package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/flordomaracuja/lead-capture/internal/leads"
	"github.com/flordomaracuja/lead-capture/pkg/logging"
)

// Service sends operational notifications to the restaurant staff.
type Service struct {
	email     EmailSender
	recipient string
	logger    *logging.Logger
}

// NewService creates a notification service. A nil sender disables delivery.
func NewService(email EmailSender, recipient string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:     email,
		recipient: recipient,
		logger:    logger,
	}
}

// NotifyNewLead emails the staff about a freshly captured lead. Delivery is
// best effort; a failed email never affects the submission result.
func (s *Service) NotifyNewLead(ctx context.Context, lead *leads.Lead) {
	if s.email == nil || s.recipient == "" || lead == nil {
		return
	}

	preferences := lead.Preferences
	if preferences == "" {
		preferences = "nenhuma informada"
	}

	subject := fmt.Sprintf("Novo cadastro na promoção - %s", lead.Name)
	body := fmt.Sprintf(`Novo cadastro recebido no site!

Nome: %s
Email: %s
Telefone: %s
Preferências: %s
Código promocional: %s
Recebido em: %s

— Flor do Maracujá`,
		lead.Name, lead.Email, lead.Phone, preferences, lead.PromoCode,
		lead.CreatedAt.Format("02/01/2006 15:04"))

	msg := EmailMessage{
		To:      s.recipient,
		Subject: subject,
		Body:    body,
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.email.Send(sendCtx, msg); err != nil {
		s.logger.Error("new lead notification failed", "error", err, "lead_id", lead.ID)
		return
	}
	s.logger.Info("new lead notification sent", "lead_id", lead.ID)
}
