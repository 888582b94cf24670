// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the sole entity of the credential service: a stored identity
// record keyed by email. The PasswordHash field holds the bcrypt output of
// the password submitted at registration; the plaintext itself never leaves
// the hashing step.
type Account struct {
	ID           uuid.UUID // Store-assigned identifier, immutable once created.
	Name         string    // Display name. Required, no uniqueness constraint.
	Email        string    // Login identifier, stored case-sensitively as submitted. Unique across all accounts.
	PasswordHash string    // bcrypt hash of the registration password. Never serialized to callers.
	CreatedAt    time.Time // Timestamp of the successful registration that created this account.
	UpdatedAt    time.Time // Maintained by the store; the service itself never updates accounts.
}
