package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"servicehub/internal/config"
)

type Service interface {
	Send(ctx context.Context, toEmail, subject, htmlBody string) error
}

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="font-family: Arial, sans-serif; background: #f5f6f8; padding: 24px;">
  <div style="max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 24px;">
    <h1 style="color: #1f6feb; font-size: 20px;">ServiceHub</h1>
    {{.Body}}
    <hr style="border: none; border-top: 1px solid #e5e7eb; margin-top: 24px;">
    <p style="color: #6b7280; font-size: 12px;">
      You are receiving this email because you have an account on ServiceHub.
      Manage notifications at <a href="{{.SettingsURL}}">{{.SettingsURL}}</a>.
    </p>
  </div>
</body>
</html>`))

type service struct {
	client *resend.Client
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
	}
}

// Send wraps an already rendered HTML body in the email layout and sends it through Resend.
func (s *service) Send(ctx context.Context, toEmail, subject, htmlBody string) error {
	if s.config.ResendAPIKey == "" {
		return fmt.Errorf("email is not configured")
	}

	body, err := s.render(subject, htmlBody)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("ServiceHub <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body,
		Subject: subject,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (s *service) render(subject, htmlBody string) (string, error) {
	var body bytes.Buffer
	err := layout.Execute(&body, struct {
		Subject     string
		Body        template.HTML
		SettingsURL string
	}{
		Subject:     subject,
		Body:        template.HTML(htmlBody),
		SettingsURL: fmt.Sprintf("https://%s/settings/notifications", s.config.Domain),
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute email layout: %w", err)
	}
	return body.String(), nil
}
