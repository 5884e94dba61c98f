package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// GuardAssignmentEmailData holds data for the email sent when a person is
// granted check-in authority for an event.
type GuardAssignmentEmailData struct {
	Email     string
	GuardName string
	OwnerName string
	EventName string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendGuardAssignment(ctx context.Context, data *GuardAssignmentEmailData) error
}
