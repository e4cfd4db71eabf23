package security

import "testing"

func TestCSRFTokenRoundTrip(t *testing.T) {
	gen := NewCSRFGenerator("test-secret")

	token, err := gen.GenerateToken("session-123")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if !gen.ValidateToken("session-123", token) {
		t.Error("valid token rejected")
	}
	if gen.ValidateToken("other-session", token) {
		t.Error("token accepted for another session")
	}
	if gen.ValidateToken("session-123", "forged") {
		t.Error("forged token accepted")
	}
}

func TestCSRFTokenIsDeterministic(t *testing.T) {
	gen := NewCSRFGenerator("test-secret")

	t1, _ := gen.GenerateToken("session-123")
	t2, _ := gen.GenerateToken("session-123")
	if t1 != t2 {
		t.Error("tokens for the same session differ")
	}

	other := NewCSRFGenerator("other-secret")
	t3, _ := other.GenerateToken("session-123")
	if t1 == t3 {
		t.Error("different secrets produced the same token")
	}
}

func TestCSRFEmptySession(t *testing.T) {
	gen := NewCSRFGenerator("test-secret")

	if _, err := gen.GenerateToken(""); err == nil {
		t.Error("empty session id accepted")
	}
	if gen.ValidateToken("", "anything") {
		t.Error("empty session id validated")
	}
}
