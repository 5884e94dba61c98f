package services

import (
	"context"
	"fmt"
	"log"

	"doorlist/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendGuardAssignment sends the check-in-access notification using the
// "guard_assignment" template and the given data.
func (s *emailService) SendGuardAssignment(ctx context.Context, data *domain.GuardAssignmentEmailData) error {
	if data == nil {
		return fmt.Errorf("guard assignment data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("guard_assignment", data)
	if err != nil {
		return fmt.Errorf("failed to render guard_assignment template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send guard assignment email: %w", err)
	}
	log.Printf("[EMAIL] Guard assignment notice sent to %s", data.Email)
	return nil
}
