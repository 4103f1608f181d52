package auth

import "context"

// Verifier verifica un token de sesión del organizador y devuelve claims o error.
// La autenticación real (signup/login/sesiones) vive fuera de este servicio.
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
