package submissions

import (
	"regexp"
	"strings"
)

// ValidationError nombra el campo que falló; el mensaje es apto
// para mostrarle al guest tal cual.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	zipRe   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	stateRe = regexp.MustCompile(`^[A-Z]{2}$`)
)

// RawAddress es el input tal cual llega del form público.
type RawAddress struct {
	Line1   string
	Line2   string
	City    string
	State   string
	ZIP     string
	Country string
}

// ValidateAddress normaliza y valida campo por campo, cortando en el
// primer error. Orden fijo: line1, line2, city, state, zip, country.
func ValidateAddress(in RawAddress) (Address, *ValidationError) {
	var out Address

	out.Line1 = strings.TrimSpace(in.Line1)
	if out.Line1 == "" {
		return Address{}, &ValidationError{Field: "addressLine1", Message: "Street address is required"}
	}
	if len(out.Line1) > 200 {
		return Address{}, &ValidationError{Field: "addressLine1", Message: "Street address must be between 1 and 200 characters"}
	}

	out.Line2 = strings.TrimSpace(in.Line2)
	if len(out.Line2) > 200 {
		return Address{}, &ValidationError{Field: "addressLine2", Message: "Address line 2 is too long"}
	}

	out.City = strings.TrimSpace(in.City)
	if out.City == "" {
		return Address{}, &ValidationError{Field: "city", Message: "City is required"}
	}
	if len(out.City) > 100 {
		return Address{}, &ValidationError{Field: "city", Message: "City must be between 1 and 100 characters"}
	}

	out.State = strings.ToUpper(strings.TrimSpace(in.State))
	if !stateRe.MatchString(out.State) {
		return Address{}, &ValidationError{Field: "state", Message: "State must be a valid 2-letter code"}
	}

	out.ZIP = strings.TrimSpace(in.ZIP)
	if !zipRe.MatchString(out.ZIP) {
		return Address{}, &ValidationError{Field: "zip", Message: "ZIP code must be in format 12345 or 12345-6789"}
	}

	out.Country = strings.TrimSpace(in.Country)
	if out.Country == "" {
		out.Country = "US"
	}
	if len(out.Country) > 50 {
		return Address{}, &ValidationError{Field: "country", Message: "Country name is too long"}
	}

	return out, nil
}
