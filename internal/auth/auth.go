// Package auth gates catalog writes behind the admin secret and signs the
// admin session token handed to clients after a successful check.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnauthorized is returned when the provided secret does not match.
var ErrUnauthorized = errors.New("unauthorized")

// Admin checks candidate secrets against the configured admin secret.
type Admin struct {
	hash string
}

// NewAdmin returns an Admin for secret. An empty secret authorizes nobody.
func NewAdmin(secret string) *Admin {
	if secret == "" {
		return &Admin{}
	}
	return &Admin{hash: hashSecret(secret)}
}

// Enabled reports whether an admin secret is configured.
func (a *Admin) Enabled() bool {
	return a.hash != ""
}

// Check returns nil when provided matches the admin secret.
func (a *Admin) Check(provided string) error {
	if !a.Enabled() || provided == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(a.hash), []byte(hashSecret(provided))) != 1 {
		return ErrUnauthorized
	}
	return nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Sessions issues and verifies HMAC-signed session values of the form
// base64(subject|expiry).hex(signature).
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

// NewSessions returns a signer. An empty secret is replaced by a random key,
// so sessions then last only for the current process. A non-positive ttl
// means sessions never expire.
func NewSessions(secret string, ttl time.Duration) *Sessions {
	key := []byte(secret)
	if secret == "" {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("auth: read random session key: %v", err))
		}
	}
	return &Sessions{secret: key, ttl: ttl}
}

// Issue signs a session for subject.
func (s *Sessions) Issue(subject string, now time.Time) string {
	var expires int64
	if s.ttl > 0 {
		expires = now.Add(s.ttl).Unix()
	}
	payload := base64.RawURLEncoding.EncodeToString([]byte(subject + "|" + strconv.FormatInt(expires, 10)))
	return payload + "." + hex.EncodeToString(s.sign(payload))
}

// Verify returns the subject of a valid, unexpired session value.
func (s *Sessions) Verify(value string, now time.Time) (string, bool) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok {
		return "", false
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(provided, s.sign(payload)) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	subject, exp, ok := strings.Cut(string(decoded), "|")
	if !ok || subject == "" {
		return "", false
	}
	expires, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return "", false
	}
	if expires != 0 && now.Unix() >= expires {
		return "", false
	}
	return subject, true
}

func (s *Sessions) sign(payload string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	return mac.Sum(nil)
}
