package personalize

import "context"

type Tone string

const (
	ToneWarmCasual   Tone = "warm_casual"
	TonePoliteFormal Tone = "polite_formal"
	TonePlayful      Tone = "playful"
)

func ValidTone(t Tone) bool {
	switch t {
	case ToneWarmCasual, TonePoliteFormal, TonePlayful:
		return true
	}
	return false
}

type Input struct {
	EventName      string
	EventType      string
	GuestFirstName string
	Relationship   string
	Tone           Tone
	Context        string
	OrganizerName  string
}

// Personalizer genera el texto del request de dirección.
// El mensaje devuelto SIEMPRE contiene el placeholder [link].
// Las implementaciones no fallan: ante cualquier error del provider
// devuelven el template fijo de fallback.
type Personalizer interface {
	Personalize(ctx context.Context, in Input) string
}

// FallbackMessage es el template usado cuando el provider de AI no responde.
func FallbackMessage(guestFirstName, eventName string) string {
	return "Hi " + guestFirstName + "! I need your mailing address for " + eventName +
		". Could you share it here? [link] Thanks!"
}
