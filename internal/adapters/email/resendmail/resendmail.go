// Package resendmail manda los address requests por email vía Resend.
package resendmail

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"

	"cardulary/internal/ports/transport"
)

var ErrNotConfigured = errors.New("resend client not configured")

type Sender struct {
	client *resend.Client
	from   string
}

// New arma el sender. from es el remitente completo,
// p.ej. "Cardulary <noreply@cardulary.app>".
func New(apiKey, from string) *Sender {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return &Sender{}
	}
	return &Sender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *Sender) SendAddressRequest(ctx context.Context, in transport.EmailRequest) (transport.SendResult, error) {
	if s == nil || s.client == nil {
		return transport.SendResult{}, ErrNotConfigured
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{in.To},
		Subject: in.OrganizerName + " needs your mailing address",
		Html:    renderHTML(in),
		Text:    renderText(in),
	})
	if err != nil {
		return transport.SendResult{}, err
	}

	return transport.SendResult{ProviderID: sent.Id}, nil
}

func firstName(full string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(full), " ")
	return name
}

// El mensaje trae el placeholder [link]; en email el link va como
// botón aparte, así que el placeholder se saca del cuerpo.
func bodyMessage(custom string) string {
	return strings.TrimSpace(strings.ReplaceAll(custom, "[link]", ""))
}

func renderHTML(in transport.EmailRequest) string {
	event := html.EscapeString(in.EventName)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Address Request - %s</title>
</head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="color: white; margin: 0; font-size: 28px;">&#128238; %s</h1>
  </div>
  <div style="background: #f9fafb; padding: 30px; border-radius: 0 0 10px 10px;">
    <p style="font-size: 16px;">Hi <strong>%s</strong>!</p>
    <p style="font-size: 16px;">%s</p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="%s" style="display: inline-block; background: #667eea; color: white; padding: 14px 32px; text-decoration: none; border-radius: 6px; font-weight: 600; font-size: 16px;">Submit Your Address</a>
    </div>
    <p style="font-size: 14px; color: #6b7280;">This will take less than 60 seconds. Just fill out a quick form with your mailing address.</p>
    <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 30px 0;">
    <p style="font-size: 12px; color: #9ca3af; text-align: center;">&#128274; Your address will only be used for %s.<br>We will never spam you or share your information.</p>
    <p style="font-size: 12px; color: #9ca3af; text-align: center; margin-top: 20px;">Powered by <strong>Cardulary</strong></p>
  </div>
</body>
</html>`,
		event,
		event,
		html.EscapeString(firstName(in.GuestName)),
		html.EscapeString(bodyMessage(in.CustomMessage)),
		html.EscapeString(in.SubmissionURL),
		event,
	)
}

func renderText(in transport.EmailRequest) string {
	return fmt.Sprintf(`Hi %s!

%s

Submit your address here: %s

This will take less than 60 seconds.

---
Your address will only be used for %s.
We will never spam you or share your information.

Powered by Cardulary`,
		firstName(in.GuestName),
		bodyMessage(in.CustomMessage),
		in.SubmissionURL,
		in.EventName,
	)
}
