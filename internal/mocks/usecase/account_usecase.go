// Package usecase provides hand-maintained testify mocks for usecase interfaces.
package usecase

import (
	"context"

	"agrisetu/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// MockAccountUsecase is a mock implementation of usecase.AccountUsecase.
type MockAccountUsecase struct {
	mock.Mock
}

// NewMockAccountUsecase creates a new mock and registers expectation
// verification with the test's cleanup.
func NewMockAccountUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAccountUsecase {
	m := &MockAccountUsecase{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Register provides a mock function for account registration.
func (m *MockAccountUsecase) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	args := m.Called(ctx, input)

	var output *usecase.RegisterOutput
	if args.Get(0) != nil {
		output = args.Get(0).(*usecase.RegisterOutput)
	}

	return output, args.Error(1)
}

// Login provides a mock function for credential verification.
func (m *MockAccountUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, input)

	var output *usecase.LoginOutput
	if args.Get(0) != nil {
		output = args.Get(0).(*usecase.LoginOutput)
	}

	return output, args.Error(1)
}
