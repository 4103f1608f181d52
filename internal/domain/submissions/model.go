package submissions

import "time"

// Address es la dirección ya normalizada por ValidateAddress.
type Address struct {
	Line1   string
	Line2   string
	City    string
	State   string // 2 letras, uppercase
	ZIP     string // NNNNN o NNNNN-NNNN
	Country string // default "US"
}

// Submission es una fila del historial de direcciones del guest.
// Append-only: un re-submit no edita, agrega una fila nueva y la
// anterior pierde IsCurrent.
type Submission struct {
	ID      string
	GuestID string

	Address Address

	SubmittedAt time.Time

	// Señal de abuso nada más; el core no la valida.
	IPAddress string

	// Invariante: a lo sumo UNA submission current por guest.
	IsCurrent bool
}
