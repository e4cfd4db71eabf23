package validation

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Jane  ", "jane"},
		{"DOE", "doe"},
		{"MiXeD CaSe", "mixed case"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"jane@example.com", false},
		{"jane.doe+camp@example.co.uk", false},
		{"", true},
		{"not-an-email", true},
		{"jane@", true},
		{"@example.com", true},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("longenough"); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Error("short password accepted")
	}
	if err := ValidatePassword(""); err == nil {
		t.Error("empty password accepted")
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("first name", "jane"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
	if err := ValidateName("first name", ""); err == nil {
		t.Error("empty name accepted")
	}
	if err := ValidateName("first name", "j"); err == nil {
		t.Error("one-letter name accepted")
	}
}
