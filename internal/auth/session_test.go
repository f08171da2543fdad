package auth

import (
	"regexp"
	"testing"
	"time"
)

func TestNewManagerAndTokenLifecycle(t *testing.T) {
	mgr, err := NewManager("test-secret", "issuer", time.Minute*30)
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}

	sid := NewSessionToken()
	token, expiresAt, err := mgr.IssueToken(42, sid)
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if expiresAt.Before(time.Now()) {
		t.Fatal("expected future expiry time")
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error parsing token: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.UserID)
	}
	if claims.SessionID != sid {
		t.Fatalf("expected session id %s, got %s", sid, claims.SessionID)
	}
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	issuer, _ := NewManager("secret-a", "labelhub", time.Hour)
	verifier, _ := NewManager("secret-b", "labelhub", time.Hour)

	token, _, err := issuer.IssueToken(1, NewSessionToken())
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestParseTokenRejectsOtherIssuer(t *testing.T) {
	issuer, _ := NewManager("shared", "someone-else", time.Hour)
	verifier, _ := NewManager("shared", "labelhub", time.Hour)

	token, _, _ := issuer.IssueToken(1, NewSessionToken())
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestIssueTokenRequiresSession(t *testing.T) {
	mgr, _ := NewManager("secret", "", time.Hour)
	if _, _, err := mgr.IssueToken(0, NewSessionToken()); err == nil {
		t.Fatal("expected error for zero user id")
	}
	if _, _, err := mgr.IssueToken(1, " "); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("   ", "", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestSessionTokenAndHash(t *testing.T) {
	hexPattern := regexp.MustCompile(`^[0-9a-f]{64}$`)
	a, b := NewSessionToken(), NewSessionToken()
	if a == b {
		t.Fatal("expected distinct session tokens")
	}
	if !hexPattern.MatchString(a) {
		t.Fatalf("unexpected session token format %q", a)
	}
	hash := HashToken(a)
	if !hexPattern.MatchString(hash) || hash == a {
		t.Fatalf("unexpected hash %q", hash)
	}
	if HashToken(a) != hash {
		t.Fatal("expected hash to be deterministic")
	}
}

func TestParseExpired(t *testing.T) {
	mgr, _ := NewManager("secret", "labelhub", time.Hour)
	sid := NewSessionToken()
	mgr.expiry = -time.Minute
	token, _, err := mgr.IssueToken(7, sid)
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	if _, err := mgr.ParseToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
	claims, err := mgr.ParseExpired(token)
	if err != nil {
		t.Fatalf("unexpected error parsing expired token: %v", err)
	}
	if claims.SessionID != sid || claims.UserID != 7 {
		t.Fatalf("unexpected claims %+v", claims)
	}

	other, _ := NewManager("other", "labelhub", time.Hour)
	if _, err := other.ParseExpired(token); err == nil {
		t.Fatal("expected signature check to still apply")
	}
}
