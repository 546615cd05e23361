// Package challenge manages the one-time codes gating signup and login.
// A challenge is bound to an identifier and a kind, overwritten by any
// newer request for the same identifier, consumed exactly once, and
// evicted after a TTL.
package challenge

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"
)

// Kind distinguishes signup challenges from login challenges. A challenge
// of one kind can only be redeemed by a request of the same kind.
type Kind string

const (
	KindSignup Kind = "SIGNUP"
	KindLogin  Kind = "LOGIN"
)

var (
	// ErrNoChallenge indicates no pending challenge for the identifier,
	// including the replay-after-redeem case.
	ErrNoChallenge = errors.New("challenge: no pending challenge")
	// ErrKindMismatch indicates the pending challenge was issued for the
	// other flow.
	ErrKindMismatch = errors.New("challenge: kind mismatch")
	// ErrInvalidCode indicates the submitted code does not match.
	ErrInvalidCode = errors.New("challenge: invalid code")
)

// Payload is the state carried across the two phases of a flow: the
// candidate password for signup, the resolved identity for login.
type Payload struct {
	Password   string `json:"password,omitempty"`
	IdentityID string `json:"identity_id,omitempty"`
	Role       string `json:"role,omitempty"`
}

// Challenge is a pending one-time-code record. Only the SHA-256 of the
// code is stored.
type Challenge struct {
	Kind      Kind      `json:"kind"`
	CodeHash  string    `json:"code_hash"`
	Payload   Payload   `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Store issues and redeems challenges. Implementations must be safe for
// concurrent use and must expire entries after the configured TTL.
type Store interface {
	// Issue generates a fresh code, records the challenge (overwriting any
	// pending one for the identifier), and returns the plain code for
	// out-of-band delivery.
	Issue(ctx context.Context, identifier string, kind Kind, payload Payload) (string, error)
	// Redeem validates kind and code against the pending challenge. On
	// success the challenge is deleted and its payload returned; a second
	// redeem of the same code fails with ErrNoChallenge.
	Redeem(ctx context.Context, identifier string, kind Kind, code string) (Payload, error)
}

const codeDigits = 6

// GenerateCode returns a 6-digit numeric code from crypto/rand.
func GenerateCode() (string, error) {
	b := make([]byte, codeDigits)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := make([]byte, codeDigits)
	for i := 0; i < codeDigits; i++ {
		s[i] = '0' + (b[i] % 10)
	}
	return string(s), nil
}

// HashCode returns the hex SHA-256 of a code.
func HashCode(code string) string {
	h := sha256.Sum256([]byte(code))
	return hex.EncodeToString(h[:])
}

// codeEqual compares a submitted code with a stored hash in constant time.
func codeEqual(code, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashCode(code)), []byte(storedHash)) == 1
}

// validate applies the shared kind/code checks.
func (c Challenge) validate(kind Kind, code string) error {
	if c.Kind != kind {
		return ErrKindMismatch
	}
	if !codeEqual(code, c.CodeHash) {
		return ErrInvalidCode
	}
	return nil
}
