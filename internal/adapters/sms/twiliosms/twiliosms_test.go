package twiliosms

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5551234567", "+15551234567"},
		{"(555) 123-4567", "+15551234567"},
		{"555.123.4567", "+15551234567"},
		{"15551234567", "+15551234567"},
		{"+1 555 123 4567", "+15551234567"},
		// no parseable: se devuelve tal cual
		{"+44 20 7946 0958", "+44 20 7946 0958"},
		{"123", "123"},
	}

	for _, c := range cases {
		if got := NormalizePhone(c.in); got != c.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
