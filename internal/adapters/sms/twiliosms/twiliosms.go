// Package twiliosms manda los address requests por SMS vía Twilio.
package twiliosms

import (
	"context"
	"errors"
	"strings"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"cardulary/internal/ports/transport"
)

var ErrNotConfigured = errors.New("twilio client not configured")

type Sender struct {
	client *twilio.RestClient
	from   string

	// URL del callback de status (delivered/failed); opcional.
	statusCallback string
}

func New(accountSID, authToken, from, statusCallback string) *Sender {
	if strings.TrimSpace(accountSID) == "" || strings.TrimSpace(authToken) == "" {
		return &Sender{}
	}
	return &Sender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from:           from,
		statusCallback: statusCallback,
	}
}

func (s *Sender) SendAddressRequest(ctx context.Context, in transport.SMSRequest) (transport.SendResult, error) {
	if s == nil || s.client == nil {
		return transport.SendResult{}, ErrNotConfigured
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(NormalizePhone(in.To))
	params.SetFrom(s.from)
	params.SetBody(in.Body)
	if s.statusCallback != "" {
		params.SetStatusCallback(s.statusCallback)
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return transport.SendResult{}, err
	}

	var sid string
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	return transport.SendResult{ProviderID: sid}, nil
}

// NormalizePhone intenta llevar el número a E.164 asumiendo US.
// Si no se puede parsear, lo devuelve tal cual; Twilio dará el error.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case len(d) == 10:
		return "+1" + d
	case len(d) == 11 && strings.HasPrefix(d, "1"):
		return "+" + d
	}
	return phone
}
