package router

import (
	"cardulary/internal/adapters/email/resendmail"
	"cardulary/internal/adapters/sms/twiliosms"
	"cardulary/internal/config"
	"cardulary/internal/ports/transport"
	"strings"
)

func newResendSender(cfg config.Config) transport.EmailSender {
	return resendmail.New(cfg.ResendAPIKey, cfg.EmailFrom)
}

func newTwilioSender(cfg config.Config) transport.SMSSender {
	callback := strings.TrimRight(cfg.BaseURL, "/") + "/webhooks/delivery"
	return twiliosms.New(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, callback)
}
