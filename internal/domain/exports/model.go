package exports

import "time"

// Record es el snapshot plano guest+dirección que consume el engine.
// Se arma en el handler desde guests + submission current; acá no se
// vuelve a validar shape: el tipo ES el contrato.
type Record struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string

	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	ZIP          string
	Country      string

	Status      string
	SubmittedAt *time.Time
}

// Payload es el archivo listo para bajar.
type Payload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Log es una fila del historial de exports del evento.
type Log struct {
	ID      string
	EventID string
	UserID  string

	Format       Format
	StatusFilter StatusFilter

	ExportedAt time.Time
}
