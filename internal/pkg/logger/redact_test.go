package logger

import "testing"

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"owner@acecooling.com", "ow***@acecooling.com"},
		{"ab@acecooling.com", "***@acecooling.com"},
		{"not-an-email", "***@***"},
	}
	for _, tt := range tests {
		if got := RedactEmail(tt.in); got != tt.want {
			t.Errorf("RedactEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedactPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(602) 555-0100", "***-0100"},
		{"602.555.0100", "***-0100"},
		{"x1", "***"},
	}
	for _, tt := range tests {
		if got := RedactPhone(tt.in); got != tt.want {
			t.Errorf("RedactPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedactValue(t *testing.T) {
	if got := redactValue("contact_email", "owner@acecooling.com"); got != "ow***@acecooling.com" {
		t.Errorf("keyed email = %q", got)
	}
	if got := redactValue("phone", "(602) 555-0100"); got != "***-0100" {
		t.Errorf("keyed phone = %q", got)
	}

	// Contact details embedded in free-form values are swept too.
	got := redactValue("reason", "duplicate of owner@acecooling.com at (602) 555-0100")
	if got != "duplicate of ow***@acecooling.com at ***-0100" {
		t.Errorf("swept value = %q", got)
	}
}
