package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"testing"
	"time"
)

func TestAdminCheck(t *testing.T) {
	admin := NewAdmin("s3cret")

	if err := admin.Check("s3cret"); err != nil {
		t.Fatalf("Check(correct) = %v, want nil", err)
	}
	for _, bad := range []string{"", "S3cret", "s3cret "} {
		if err := admin.Check(bad); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("Check(%q) = %v, want ErrUnauthorized", bad, err)
		}
	}
}

func TestAdminWithoutSecretAuthorizesNobody(t *testing.T) {
	admin := NewAdmin("")
	if admin.Enabled() {
		t.Fatalf("Enabled() = true for empty secret")
	}
	if err := admin.Check(""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Check(\"\") = %v, want ErrUnauthorized", err)
	}
}

func TestSessionsRoundTrip(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s := NewSessions("signing-key", time.Hour)

	value := s.Issue("admin", now)
	subject, ok := s.Verify(value, now.Add(30*time.Minute))
	if !ok || subject != "admin" {
		t.Fatalf("Verify = (%q, %v), want (admin, true)", subject, ok)
	}

	if _, ok := s.Verify(value, now.Add(time.Hour)); ok {
		t.Fatalf("Verify accepted an expired session")
	}
}

func TestSessionsRejectTampering(t *testing.T) {
	now := time.Now()
	s := NewSessions("signing-key", 0)
	value := s.Issue("admin", now)

	if _, ok := NewSessions("other-key", 0).Verify(value, now); ok {
		t.Fatalf("Verify accepted a value signed with another key")
	}
	for _, bad := range []string{"", "nodot", value + "00", "x" + value} {
		if _, ok := s.Verify(bad, now); ok {
			t.Fatalf("Verify(%q) accepted a tampered value", bad)
		}
	}
	if subject, ok := s.Verify(value, now.Add(24*365*time.Hour)); !ok || subject != "admin" {
		t.Fatalf("session without ttl expired")
	}
}

func TestSessionsWithoutSecretUseRandomKey(t *testing.T) {
	now := time.Now()
	s := NewSessions("", time.Hour)

	value := s.Issue("admin", now)
	if subject, ok := s.Verify(value, now); !ok || subject != "admin" {
		t.Fatalf("Verify rejected its own session")
	}
	if _, ok := NewSessions("", time.Hour).Verify(value, now); ok {
		t.Fatalf("a second signer without secret accepted the session")
	}

	payload := base64.RawURLEncoding.EncodeToString([]byte("admin|0"))
	mac := hmac.New(sha256.New, nil)
	mac.Write([]byte(payload))
	forged := payload + "." + hex.EncodeToString(mac.Sum(nil))
	if _, ok := s.Verify(forged, now); ok {
		t.Fatalf("Verify accepted a value signed with an empty key")
	}
}
