package auth

// Claims representa la identidad extraída del token de sesión.
type Claims struct {
	UserID string
	Email  string
	Name   string
}
