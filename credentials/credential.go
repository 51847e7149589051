package credentials

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinClearance = 1
	MaxClearance = 5

	// bcrypt keys on at most this many bytes of secret plus a NUL terminator.
	maxSecretBytes = 72
)

// Credential is the single record held for a user. Re-issuing replaces it.
type Credential struct {
	UserID     string    `json:"user_id"`     // Unique key
	SecretHash string    `json:"secret_hash"` // bcrypt hash of the issued secret, the raw secret is never stored
	Clearance  int       `json:"clearance"`   // 1..5, gates content visibility
	Active     bool      `json:"active"`      // Cleared on revocation
	Created    time.Time `json:"created"`     // When the current secret was issued
}

// ClampClearance forces level into [MinClearance, MaxClearance].
func ClampClearance(level int) int {
	if level < MinClearance {
		return MinClearance
	}
	if level > MaxClearance {
		return MaxClearance
	}
	return level
}

// Validate rejects records that could not have been produced by issuing a credential.
func (c *Credential) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if c.SecretHash == "" {
		return fmt.Errorf("secret_hash is required for %q", c.UserID)
	}
	if c.Clearance < MinClearance || c.Clearance > MaxClearance {
		return fmt.Errorf("clearance %d out of range for %q", c.Clearance, c.UserID)
	}
	return nil
}

func HashSecret(secret string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	return string(bytes), err
}

// CheckSecretHash reports whether secret is exactly the secret behind hash.
// Secrets bcrypt cannot tell apart from a different secret, those longer than
// maxSecretBytes or holding a NUL byte, never match.
func CheckSecretHash(secret, hash string) bool {
	if len(secret) > maxSecretBytes || strings.IndexByte(secret, 0) >= 0 {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	return err == nil
}

// CheckSecret is a method that checks a presented secret against the stored hash
func (c *Credential) CheckSecret(secret string) bool {
	return CheckSecretHash(secret, c.SecretHash)
}
