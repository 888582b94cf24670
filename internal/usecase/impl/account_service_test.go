package impl

import (
	"context"
	"testing"
	"time"

	"agrisetu/internal/domain/entity"
	domainerrors "agrisetu/internal/domain/errors"
	"agrisetu/internal/domain/repository"
	mockRepo "agrisetu/internal/mocks/repository"
	mockSvc "agrisetu/internal/mocks/service"
	"agrisetu/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service     usecase.AccountUsecase
	accountRepo *mockRepo.MockAccountRepository
	hasher      *mockSvc.MockPasswordHasher
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)

	service := NewAccountService(AccountServiceParams{
		AccountRepo: accountRepo,
		Hasher:      hasher,
		Config:      newTestConfig(time.Second),
		Logger:      newDiscardLogger(),
	})

	return accountServiceFixtures{
		service:     service,
		accountRepo: accountRepo,
		hasher:      hasher,
	}
}

func TestAccountService_Register_Success(t *testing.T) {
	f := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Asha",
		Email:    "asha@x.com",
		Password: "pw123",
	}

	f.accountRepo.On("FindByEmail", mock.Anything, input.Email).
		Return(nil, repository.ErrAccountNotFound)

	f.hasher.On("Hash", input.Password).Return("hashed_password", nil)

	assignedID := uuid.New()
	f.accountRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Account")).
		Run(func(args mock.Arguments) {
			account := args.Get(1).(*entity.Account)
			account.ID = assignedID
			account.CreatedAt = time.Now()
		}).
		Return(nil)

	output, err := f.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, assignedID, output.Account.ID)
	assert.Equal(t, input.Name, output.Account.Name)
	assert.Equal(t, input.Email, output.Account.Email)
	// The persisted record carries the hash, never the plaintext.
	assert.Equal(t, "hashed_password", output.Account.PasswordHash)
	assert.NotEqual(t, input.Password, output.Account.PasswordHash)
}

func TestAccountService_Register_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		input *usecase.RegisterInput
	}{
		{name: "nil input", input: nil},
		{name: "missing name", input: &usecase.RegisterInput{Email: "asha@x.com", Password: "pw123"}},
		{name: "missing email", input: &usecase.RegisterInput{Name: "Asha", Password: "pw123"}},
		{name: "missing password", input: &usecase.RegisterInput{Name: "Asha", Email: "asha@x.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createTestAccountService(t)

			output, err := f.service.Register(context.Background(), tt.input)

			require.Error(t, err)
			assert.Nil(t, output)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
			// Rejected before any hashing or store access.
			f.accountRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
			f.accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			f.hasher.AssertNotCalled(t, "Hash", mock.Anything)
		})
	}
}

func TestAccountService_Register_EmailTakenFastPath(t *testing.T) {
	f := createTestAccountService(t)

	existing := &entity.Account{
		ID:           uuid.New(),
		Name:         "Asha",
		Email:        "asha@x.com",
		PasswordHash: "stored_hash",
	}
	f.accountRepo.On("FindByEmail", mock.Anything, existing.Email).
		Return(existing, nil)

	output, err := f.service.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Asha",
		Email:    existing.Email,
		Password: "pw123",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrEmailTaken)
	// The fast path skips the bcrypt cost entirely.
	f.hasher.AssertNotCalled(t, "Hash", mock.Anything)
	f.accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountService_Register_DuplicateRaceAtInsert(t *testing.T) {
	f := createTestAccountService(t)

	input := &usecase.RegisterInput{
		Name:     "Asha",
		Email:    "asha@x.com",
		Password: "pw123",
	}

	// The advisory check sees no account; a concurrent registration wins the
	// insert in between, and the store's constraint reports the collision.
	f.accountRepo.On("FindByEmail", mock.Anything, input.Email).
		Return(nil, repository.ErrAccountNotFound)
	f.hasher.On("Hash", input.Password).Return("hashed_password", nil)
	f.accountRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Account")).
		Return(repository.ErrDuplicateEmail)

	output, err := f.service.Register(context.Background(), input)

	require.Error(t, err)
	assert.Nil(t, output)
	// The late failure is indistinguishable from the fast path.
	assert.ErrorIs(t, err, domainerrors.ErrEmailTaken)
}

func TestAccountService_Register_StoreUnavailableOnPreCheck(t *testing.T) {
	f := createTestAccountService(t)

	f.accountRepo.On("FindByEmail", mock.Anything, "asha@x.com").
		Return(nil, errors.New("dial tcp: connection refused"))

	output, err := f.service.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Asha",
		Email:    "asha@x.com",
		Password: "pw123",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrStoreUnavailable)
}

func TestAccountService_Register_StoreUnavailableOnInsert(t *testing.T) {
	f := createTestAccountService(t)

	f.accountRepo.On("FindByEmail", mock.Anything, "asha@x.com").
		Return(nil, repository.ErrAccountNotFound)
	f.hasher.On("Hash", "pw123").Return("hashed_password", nil)
	f.accountRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Account")).
		Return(context.DeadlineExceeded)

	output, err := f.service.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Asha",
		Email:    "asha@x.com",
		Password: "pw123",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrStoreUnavailable)
}

func TestAccountService_Login_Success(t *testing.T) {
	f := createTestAccountService(t)

	stored := &entity.Account{
		ID:           uuid.New(),
		Name:         "Asha",
		Email:        "asha@x.com",
		PasswordHash: "stored_hash",
	}
	f.accountRepo.On("FindByEmail", mock.Anything, stored.Email).
		Return(stored, nil)
	f.hasher.On("Check", "pw123", "stored_hash").Return(true)

	output, err := f.service.Login(context.Background(), &usecase.LoginInput{
		Email:    stored.Email,
		Password: "pw123",
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, stored.ID, output.Account.ID)
	assert.Equal(t, stored.Name, output.Account.Name)
	assert.Equal(t, stored.Email, output.Account.Email)
}

func TestAccountService_Login_EnumerationResistance(t *testing.T) {
	f := createTestAccountService(t)

	stored := &entity.Account{
		ID:           uuid.New(),
		Name:         "Asha",
		Email:        "known@x.com",
		PasswordHash: "stored_hash",
	}
	f.accountRepo.On("FindByEmail", mock.Anything, "known@x.com").
		Return(stored, nil)
	f.hasher.On("Check", "wrongpassword", "stored_hash").Return(false)
	f.accountRepo.On("FindByEmail", mock.Anything, "unknown@x.com").
		Return(nil, repository.ErrAccountNotFound)

	_, wrongPasswordErr := f.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "known@x.com",
		Password: "wrongpassword",
	})
	_, unknownEmailErr := f.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "unknown@x.com",
		Password: "anything",
	})

	require.Error(t, wrongPasswordErr)
	require.Error(t, unknownEmailErr)

	// Both failure causes map to the identical typed error: same business
	// code, same status, nothing to tell a prober which part was wrong.
	assert.ErrorIs(t, wrongPasswordErr, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmailErr, domainerrors.ErrInvalidCredentials)

	var wrongPasswordApp, unknownEmailApp domainerrors.AppError
	require.True(t, errors.As(wrongPasswordErr, &wrongPasswordApp))
	require.True(t, errors.As(unknownEmailErr, &unknownEmailApp))
	assert.Equal(t, wrongPasswordApp.ErrorCode(), unknownEmailApp.ErrorCode())
	assert.Equal(t, wrongPasswordApp.HTTPCode(), unknownEmailApp.HTTPCode())
	assert.Equal(t, wrongPasswordApp.Message(), unknownEmailApp.Message())
}

func TestAccountService_Login_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		input *usecase.LoginInput
	}{
		{name: "nil input", input: nil},
		{name: "missing email", input: &usecase.LoginInput{Password: "pw123"}},
		{name: "missing password", input: &usecase.LoginInput{Email: "asha@x.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createTestAccountService(t)

			output, err := f.service.Login(context.Background(), tt.input)

			require.Error(t, err)
			assert.Nil(t, output)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
			f.accountRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
		})
	}
}

func TestAccountService_Login_StoreUnavailable(t *testing.T) {
	f := createTestAccountService(t)

	f.accountRepo.On("FindByEmail", mock.Anything, "asha@x.com").
		Return(nil, context.DeadlineExceeded)

	output, err := f.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "asha@x.com",
		Password: "pw123",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrStoreUnavailable)
}
