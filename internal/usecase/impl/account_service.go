// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"agrisetu/config"
	deliverycontext "agrisetu/internal/delivery/context"
	"agrisetu/internal/domain/entity"
	domainerrors "agrisetu/internal/domain/errors"
	"agrisetu/internal/domain/repository"
	"agrisetu/internal/domain/service"

	"agrisetu/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultStoreTimeout = 5 * time.Second

// accountService implements the AccountUsecase interface.
type accountService struct {
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	storeTimeout time.Duration
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	storeTimeout := defaultStoreTimeout
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.StoreTimeout > 0 {
		storeTimeout = params.Config.Auth.StoreTimeout
	}

	return &accountService{
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		storeTimeout: storeTimeout,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete registration process: presence
// validation, an advisory duplicate check, hashing, and the authoritative
// insert. Two registrations racing on the same email both pass the advisory
// check at most; the store's unique constraint admits exactly one, and the
// loser surfaces the same EMAIL_TAKEN outcome as the fast path.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	if err := validateRegisterInput(input); err != nil {
		srv.log(ctx).Warn("Registration input validation failed", slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	// Advisory existence check: avoids the bcrypt cost for the common
	// duplicate case. Correctness never rests on it.
	if err := srv.checkEmailFree(ctx, input.Email); err != nil {
		srv.log(ctx).Warn("Registration rejected", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
	}

	newAccount := &entity.Account{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	storeCtx, cancel := context.WithTimeout(ctx, srv.storeTimeout)
	defer cancel()

	if err := srv.accountRepo.Create(storeCtx, newAccount); err != nil {
		// The race the advisory check missed: observable outcome must be
		// identical to the fast path.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			srv.log(ctx).Warn("Registration lost duplicate race", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrEmailTaken, "email already registered")
		}

		srv.log(ctx).Error("Failed to create account", slog.String("email", input.Email), slog.Any("error", err))

		return nil, srv.storeFailure(err, "failed to create account")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("accountID", newAccount.ID))

	return &usecase.RegisterOutput{Account: newAccount}, nil
}

// Login verifies an (email, password) pair against the store. Unknown email
// and wrong password are indistinguishable to the caller.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	if err := validateLoginInput(input); err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	storeCtx, cancel := context.WithTimeout(ctx, srv.storeTimeout)
	defer cancel()

	account, err := srv.accountRepo.FindByEmail(storeCtx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		srv.log(ctx).Error("Failed to load account for login", slog.String("email", input.Email), slog.Any("error", err))

		return nil, srv.storeFailure(err, "failed to load account for login")
	}

	// Check password outside any store call (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Any("accountID", account.ID))

	return &usecase.LoginOutput{Account: account}, nil
}

// checkEmailFree performs the advisory pre-check against the store.
// Absence lets registration proceed; presence fails fast with EMAIL_TAKEN.
func (srv *accountService) checkEmailFree(ctx context.Context, email string) error {
	storeCtx, cancel := context.WithTimeout(ctx, srv.storeTimeout)
	defer cancel()

	_, err := srv.accountRepo.FindByEmail(storeCtx, email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil
	}
	if err != nil {
		return srv.storeFailure(err, "failed to check existing email")
	}

	return errors.Wrap(domainerrors.ErrEmailTaken, "email already registered")
}

// storeFailure maps every non-business store error, including an expired
// bounded interval, to STORE_UNAVAILABLE so requests never hang and driver
// detail never crosses the boundary. The underlying error stays attached for
// server-side logging only.
func (srv *accountService) storeFailure(err error, message string) error {
	return errors.Wrap(errors.WithMessage(domainerrors.ErrStoreUnavailable, err.Error()), message)
}

func validateRegisterInput(input *usecase.RegisterInput) error {
	if input == nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, "missing registration input")
	}
	if input.Name == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed, "name is required")
	}
	if input.Email == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed, "email is required")
	}
	if input.Password == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed, "password is required")
	}

	return nil
}

func validateLoginInput(input *usecase.LoginInput) error {
	if input == nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, "missing login input")
	}
	if input.Email == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed, "email is required")
	}
	if input.Password == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed, "password is required")
	}

	return nil
}
