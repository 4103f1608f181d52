// Package claude genera mensajes personalizados con la API de Anthropic.
// Si el provider falla o no está configurado, devuelve siempre el
// template fijo: el caller nunca ve un error.
package claude

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cardulary/internal/platform/httpclient"
	"cardulary/internal/platform/logger"
	"cardulary/internal/ports/personalize"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-sonnet-4-20250514"
)

type Personalizer struct {
	http   *httpclient.Client
	apiKey string
	log    logger.Logger
}

func New(apiKey string, log logger.Logger) *Personalizer {
	return &Personalizer{
		http:   httpclient.New(15 * time.Second),
		apiKey: strings.TrimSpace(apiKey),
		log:    log,
	}
}

// NewWithClient permite inyectar el http client (tests).
func NewWithClient(apiKey string, hc *httpclient.Client, log logger.Logger) *Personalizer {
	p := New(apiKey, log)
	if hc != nil {
		p.http = hc
	}
	return p
}

func (p *Personalizer) Personalize(ctx context.Context, in personalize.Input) string {
	fallback := personalize.FallbackMessage(in.GuestFirstName, in.EventName)
	if p == nil || p.apiKey == "" {
		return fallback
	}

	text, err := p.complete(ctx, buildPrompt(in), 200)
	if err != nil {
		p.log.Warn("claude personalize failed, using fallback", map[string]any{
			"error": err.Error(),
		})
		return fallback
	}
	// El mensaje tiene que traer el placeholder sí o sí: sin [link]
	// el dispatcher no tiene dónde meter el submission link.
	if !strings.Contains(text, "[link]") {
		return fallback
	}
	return text
}

func (p *Personalizer) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body := map[string]any{
		"model":      model,
		"max_tokens": maxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	var out struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}

	err := p.http.DoJSON(ctx, http.MethodPost, apiURL, map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": apiVersion,
	}, body, &out)
	if err != nil {
		return "", err
	}

	for _, c := range out.Content {
		if c.Type == "text" {
			text := strings.TrimSpace(c.Text)
			if text == "" {
				break
			}
			return text, nil
		}
	}
	return "", fmt.Errorf("claude: empty response")
}

var toneDescriptions = map[personalize.Tone]string{
	personalize.ToneWarmCasual:   "warm and casual, like texting a friend",
	personalize.TonePoliteFormal: "polite and professional, but still friendly",
	personalize.TonePlayful:      "playful and fun, with a lighthearted vibe",
}

func buildPrompt(in personalize.Input) string {
	relationship := in.Relationship
	if relationship == "" {
		relationship = "acquaintance"
	}
	tone := in.Tone
	if _, ok := toneDescriptions[tone]; !ok {
		tone = personalize.ToneWarmCasual
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are helping someone request a mailing address for their %s.\n\n", in.EventType)
	b.WriteString("Context:\n")
	fmt.Fprintf(&b, "- Event: %s\n", in.EventName)
	fmt.Fprintf(&b, "- Recipient's first name: %s\n", in.GuestFirstName)
	fmt.Fprintf(&b, "- Organizer's name: %s\n", in.OrganizerName)
	fmt.Fprintf(&b, "- Guest relationship: %s\n", relationship)
	fmt.Fprintf(&b, "- Desired tone: %s\n", toneDescriptions[tone])
	if in.Context != "" {
		fmt.Fprintf(&b, "- Additional context: %s\n", in.Context)
	}
	fmt.Fprintf(&b, `
Generate a brief, natural message (1-2 sentences max) asking %s for their mailing address.
The message should:
1. Sound human and personal, not robotic or automated
2. Match the %s tone exactly
3. Include that there will be a link to submit (use placeholder [link])
4. Be conversational and appropriate for the relationship

Generate ONLY the message text, no explanation or quotes.`,
		in.GuestFirstName,
		strings.ReplaceAll(string(tone), "_", " "),
	)
	return b.String()
}
