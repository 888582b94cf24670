package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agrisetu/internal/delivery/http/middleware"
	"agrisetu/internal/delivery/http/response"
	"agrisetu/internal/delivery/http/validator"
	"agrisetu/internal/domain/entity"
	domainerrors "agrisetu/internal/domain/errors"
	mockUsecase "agrisetu/internal/mocks/usecase"
	"agrisetu/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer wires the handler into a real echo instance with the same
// validator and error handler the production server uses, so status mapping
// is exercised end to end.
func newTestServer(t *testing.T) (*echo.Echo, *mockUsecase.MockAccountUsecase) {
	t.Helper()

	uc := mockUsecase.NewMockAccountUsecase(t)
	accountHandler := NewAccountHandler(uc, newDiscardLogger())

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(newDiscardLogger()).HandleHTTPError

	e.GET("/health", HealthCheck)
	e.POST("/register", accountHandler.Register)
	e.POST("/login", accountHandler.Login)

	return e, uc
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp
}

func TestAccountHandler_Register_Success(t *testing.T) {
	e, uc := newTestServer(t)

	accountID := uuid.New()
	uc.On("Register", mock.Anything, &usecase.RegisterInput{
		Name:     "Asha",
		Email:    "asha@x.com",
		Password: "pw123",
	}).Return(&usecase.RegisterOutput{
		Account: &entity.Account{
			ID:           accountID,
			Name:         "Asha",
			Email:        "asha@x.com",
			PasswordHash: "$2a$10$secrethashvalue",
		},
	}, nil)

	rec := doJSON(e, http.MethodPost, "/register", `{"name":"Asha","email":"asha@x.com","password":"pw123"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "User registered successfully", resp.Message)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, accountID.String(), data["id"])
	assert.Equal(t, "Asha", data["name"])
	assert.Equal(t, "asha@x.com", data["email"])

	// No secret material in the body, not even as a field name.
	body := rec.Body.String()
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "secrethashvalue")
}

func TestAccountHandler_Register_EmailTaken(t *testing.T) {
	e, uc := newTestServer(t)

	uc.On("Register", mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(nil, domainerrors.ErrEmailTaken)

	rec := doJSON(e, http.MethodPost, "/register", `{"name":"Asha","email":"asha@x.com","password":"pw123"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMAIL_TAKEN", resp.Error.Code)
}

func TestAccountHandler_Register_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"name":`},
		{name: "missing password", body: `{"name":"Asha","email":"asha@x.com"}`},
		{name: "missing name", body: `{"email":"asha@x.com","password":"pw123"}`},
		{name: "invalid email shape", body: `{"name":"Asha","email":"not-an-email","password":"pw123"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, uc := newTestServer(t)

			rec := doJSON(e, http.MethodPost, "/register", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			// Rejected at the boundary, before business logic.
			uc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
		})
	}
}

func TestAccountHandler_Register_StoreUnavailable(t *testing.T) {
	e, uc := newTestServer(t)

	uc.On("Register", mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(nil, domainerrors.ErrStoreUnavailable)

	rec := doJSON(e, http.MethodPost, "/register", `{"name":"Asha","email":"asha@x.com","password":"pw123"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "STORE_UNAVAILABLE", resp.Error.Code)
}

func TestAccountHandler_Login_Success(t *testing.T) {
	e, uc := newTestServer(t)

	accountID := uuid.New()
	uc.On("Login", mock.Anything, &usecase.LoginInput{
		Email:    "asha@x.com",
		Password: "pw123",
	}).Return(&usecase.LoginOutput{
		Account: &entity.Account{
			ID:           accountID,
			Name:         "Asha",
			Email:        "asha@x.com",
			PasswordHash: "$2a$10$secrethashvalue",
		},
	}, nil)

	rec := doJSON(e, http.MethodPost, "/login", `{"email":"asha@x.com","password":"pw123"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Login successful", resp.Message)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	user, ok := data["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, accountID.String(), user["id"])
	assert.Equal(t, "Asha", user["name"])
	assert.Equal(t, "asha@x.com", user["email"])

	body := rec.Body.String()
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "secrethashvalue")
}

func TestAccountHandler_Login_FailuresAreIndistinguishable(t *testing.T) {
	e, uc := newTestServer(t)

	// Unknown email and wrong password both surface the same typed error
	// from the usecase; the HTTP layer must not reintroduce a difference.
	uc.On("Login", mock.Anything, &usecase.LoginInput{
		Email:    "unknown@x.com",
		Password: "pw123",
	}).Return(nil, domainerrors.ErrInvalidCredentials)
	uc.On("Login", mock.Anything, &usecase.LoginInput{
		Email:    "known@x.com",
		Password: "wrongpassword",
	}).Return(nil, domainerrors.ErrInvalidCredentials)

	unknownEmail := doJSON(e, http.MethodPost, "/login", `{"email":"unknown@x.com","password":"pw123"}`)
	wrongPassword := doJSON(e, http.MethodPost, "/login", `{"email":"known@x.com","password":"wrongpassword"}`)

	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, unknownEmail.Body.String(), wrongPassword.Body.String())

	resp := decodeResponse(t, unknownEmail)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
}

func TestAccountHandler_Login_MissingFields(t *testing.T) {
	e, uc := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/login", `{"email":"asha@x.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestHealthCheck(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}
