package app

import (
	"campaignhub_backend/internal/email"
	"campaignhub_backend/internal/logger"
)

// NoopEmailProvider используется, когда SMTP выключен: письмо только логируется.
type NoopEmailProvider struct{}

func (m *NoopEmailProvider) Send(msg *email.Email) error {
	logger.Debug("Email skipped (provider disabled)", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (m *NoopEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	logger.Debug("Email skipped (provider disabled)", "to", to, "subject", subject, "template", templateName)
	return nil
}

func (m *NoopEmailProvider) Validate() error { return nil }
func (m *NoopEmailProvider) Close() error    { return nil }
