package guests

// Status es la máquina de estados del guest.
//
//	not_sent -> pending               (send aceptado por el transport)
//	pending  -> pending               (reminder)
//	pending  -> bounced               (señal externa de delivery fallido)
//	cualquiera -> completed           (el guest envía su dirección)
//	bounced  -> pending               (re-send manual del organizador)
//
// Ojo: un fallo local del dispatcher NO mueve a bounced; bounced queda
// reservado para el callback del provider después de aceptar el envío.
type Status string

const (
	StatusNotSent   Status = "not_sent"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusBounced   Status = "bounced"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusNotSent, StatusPending, StatusCompleted, StatusBounced:
		return true
	}
	return false
}

// Channel es el medio de envío del request.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

func ValidChannel(c Channel) bool {
	return c == ChannelEmail || c == ChannelSMS
}
