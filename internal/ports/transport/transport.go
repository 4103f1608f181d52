package transport

import "context"

// EmailSender manda el request de dirección por email.
// El render del HTML/link es responsabilidad del adapter.
type EmailSender interface {
	SendAddressRequest(ctx context.Context, in EmailRequest) (SendResult, error)
}

// SMSSender manda el request por SMS. El mensaje llega ya con el link sustituido.
type SMSSender interface {
	SendAddressRequest(ctx context.Context, in SMSRequest) (SendResult, error)
}

type EmailRequest struct {
	To            string
	GuestName     string
	OrganizerName string
	EventName     string
	SubmissionURL string
	CustomMessage string
}

type SMSRequest struct {
	To   string
	Body string
}

type SendResult struct {
	ProviderID string
}
