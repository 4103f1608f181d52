package submissions

import (
	"strings"
	"testing"
)

func valid() RawAddress {
	return RawAddress{
		Line1: "123 Main St",
		City:  "Springfield",
		State: "IL",
		ZIP:   "62704",
	}
}

func TestValidateAddress_Normalizes(t *testing.T) {
	in := RawAddress{
		Line1: "  123 Main St ",
		Line2: " Apt 4 ",
		City:  " Springfield ",
		State: " il ",
		ZIP:   " 62704 ",
	}

	out, verr := ValidateAddress(in)
	if verr != nil {
		t.Fatalf("unexpected error: %v", verr)
	}
	if out.Line1 != "123 Main St" || out.Line2 != "Apt 4" || out.City != "Springfield" {
		t.Fatalf("trim failed: %+v", out)
	}
	if out.State != "IL" {
		t.Fatalf("state = %q, want IL", out.State)
	}
	if out.Country != "US" {
		t.Fatalf("country default = %q, want US", out.Country)
	}
}

func TestValidateAddress_ZIP(t *testing.T) {
	cases := []struct {
		zip string
		ok  bool
	}{
		{"12345", true},
		{"12345-6789", true},
		{"1234", false},
		{"123456", false},
		{"12345-678", false},
		{"12345-67890", false},
		{"abcde", false},
		{"", false},
	}

	for _, c := range cases {
		in := valid()
		in.ZIP = c.zip
		_, verr := ValidateAddress(in)
		if c.ok && verr != nil {
			t.Errorf("zip %q: unexpected error %v", c.zip, verr)
		}
		if !c.ok {
			if verr == nil {
				t.Errorf("zip %q: expected error", c.zip)
				continue
			}
			if verr.Message != "ZIP code must be in format 12345 or 12345-6789" {
				t.Errorf("zip %q: wrong message %q", c.zip, verr.Message)
			}
		}
	}
}

func TestValidateAddress_State(t *testing.T) {
	for _, bad := range []string{"", "I", "ILL", "1L", "i1"} {
		in := valid()
		in.State = bad
		_, verr := ValidateAddress(in)
		if verr == nil {
			t.Errorf("state %q: expected error", bad)
			continue
		}
		if verr.Message != "State must be a valid 2-letter code" {
			t.Errorf("state %q: wrong message %q", bad, verr.Message)
		}
	}
}

func TestValidateAddress_RequiredAndLimits(t *testing.T) {
	in := valid()
	in.Line1 = "  "
	if _, verr := ValidateAddress(in); verr == nil || verr.Message != "Street address is required" {
		t.Fatalf("expected street required error, got %v", verr)
	}

	in = valid()
	in.Line1 = strings.Repeat("x", 201)
	if _, verr := ValidateAddress(in); verr == nil || verr.Field != "addressLine1" {
		t.Fatalf("expected line1 length error, got %v", verr)
	}

	in = valid()
	in.City = ""
	if _, verr := ValidateAddress(in); verr == nil || verr.Message != "City is required" {
		t.Fatalf("expected city required error, got %v", verr)
	}

	in = valid()
	in.Country = strings.Repeat("x", 51)
	if _, verr := ValidateAddress(in); verr == nil || verr.Field != "country" {
		t.Fatalf("expected country length error, got %v", verr)
	}
}

// El orden de los checks es parte del contrato: con varios campos
// inválidos siempre gana el primero (line1 antes que city, etc).
func TestValidateAddress_FirstErrorWins(t *testing.T) {
	in := RawAddress{Line1: "", City: "", State: "X", ZIP: "bad"}
	_, verr := ValidateAddress(in)
	if verr == nil || verr.Field != "addressLine1" {
		t.Fatalf("expected addressLine1 first, got %v", verr)
	}
}
