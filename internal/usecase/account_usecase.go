// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"agrisetu/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account.
// The delivery layer is responsible for shaping it into a response that
// carries no secret fields.
type RegisterOutput struct {
	Account *entity.Account
}

// LoginOutput returns the verified identity after a successful login.
// No session or token is minted here; establishing a session is the
// caller's concern.
type LoginOutput struct {
	Account *entity.Account
}

// AccountUsecase defines the interface for credential operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
}
