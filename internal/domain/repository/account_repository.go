// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"agrisetu/internal/domain/entity"
)

// Domain-specific errors for account persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrAccountNotFound is returned when no account exists for the queried email.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateEmail is returned when an insert collides with the unique
	// email index. The store reports it regardless of any pre-check the
	// caller performed; it is the authoritative uniqueness gate.
	ErrDuplicateEmail = errors.New("email already registered")
)

// AccountRepository defines the standard operations for account persistence.
// The application layer depends on this interface, not the concrete implementation.
type AccountRepository interface {
	// FindByEmail retrieves a single account by its email address.
	// It has no side effects and is safe to call concurrently with writes;
	// the store promises single-row atomicity only.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// Create persists a new account. On success the store-assigned ID and
	// timestamps are written back into the entity. Returns ErrDuplicateEmail
	// when an account with the same email already exists at the storage layer.
	Create(ctx context.Context, account *entity.Account) error
}
