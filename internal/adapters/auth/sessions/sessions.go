// Package sessions verifica tokens de sesión contra el servicio de
// identidad externo. El signup/login/logout viven allá, no acá.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cardulary/internal/platform/httpclient"
	"cardulary/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("sessions client not configured")
	ErrUnauthorized  = errors.New("sessions unauthorized")
	ErrUpstream      = errors.New("sessions upstream error")
)

type Verifier struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
}

func NewVerifier(baseURL, apiKey string) *Verifier {
	return &Verifier{
		http:    httpclient.New(5 * time.Second),
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
	}
}

func (v *Verifier) IsConfigured() bool {
	return v != nil && v.baseURL != "" && v.apiKey != ""
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if !v.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	var out struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
		Name   string `json:"name"`
	}

	err := v.http.DoJSON(ctx, http.MethodPost, v.baseURL+"/v1/sessions/verify",
		map[string]string{
			"X-Api-Key":     v.apiKey,
			"Authorization": "Bearer " + token,
		},
		map[string]string{"token": token},
		&out,
	)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden {
				return auth.Claims{}, ErrUnauthorized
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrUpstream, httpErr.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, errors.New("sessions response missing user_id")
	}

	return auth.Claims{
		UserID: out.UserID,
		Email:  strings.TrimSpace(out.Email),
		Name:   strings.TrimSpace(out.Name),
	}, nil
}
