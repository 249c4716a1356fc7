// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-vault-guard/internal/logger"
	"github.com/MKhiriev/go-vault-guard/internal/service"
	"github.com/MKhiriev/go-vault-guard/internal/store"
	"github.com/MKhiriev/go-vault-guard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mock AuthService
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService for unit tests.
// Each method field can be overridden per test case.
type mockAuthService struct {
	registerStartFn        func(ctx context.Context, email, password string) (string, error)
	registerConfirmFn      func(ctx context.Context, email, pin string) (models.User, error)
	provisionTOTPFn        func(ctx context.Context, email, password string) (models.PendingRegistrationResponse, error)
	registerConfirmTokenFn func(ctx context.Context, registrationToken, code string) (models.User, error)
	loginStartFn           func(ctx context.Context, email, password string) (string, error)
	loginConfirmFn         func(ctx context.Context, email, pin, totpCode string) (models.User, models.Token, error)
	twoFactorVerifyFn      func(ctx context.Context, email, code string) error
	createTokenFn          func(ctx context.Context, user models.User) (models.Token, error)
	parseTokenFn           func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) RegisterStart(ctx context.Context, email, password string) (string, error) {
	return m.registerStartFn(ctx, email, password)
}

func (m *mockAuthService) RegisterConfirm(ctx context.Context, email, pin string) (models.User, error) {
	return m.registerConfirmFn(ctx, email, pin)
}

func (m *mockAuthService) RegisterProvisionTOTP(ctx context.Context, email, password string) (models.PendingRegistrationResponse, error) {
	return m.provisionTOTPFn(ctx, email, password)
}

func (m *mockAuthService) RegisterConfirmToken(ctx context.Context, registrationToken, code string) (models.User, error) {
	return m.registerConfirmTokenFn(ctx, registrationToken, code)
}

func (m *mockAuthService) LoginStart(ctx context.Context, email, password string) (string, error) {
	return m.loginStartFn(ctx, email, password)
}

func (m *mockAuthService) LoginConfirm(ctx context.Context, email, pin, totpCode string) (models.User, models.Token, error) {
	return m.loginConfirmFn(ctx, email, pin, totpCode)
}

func (m *mockAuthService) TwoFactorVerify(ctx context.Context, email, code string) error {
	return m.twoFactorVerifyFn(ctx, email, code)
}

func (m *mockAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	return m.createTokenFn(ctx, user)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return m.parseTokenFn(ctx, tokenString)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newHandlerWithAuth builds a Handler with the given AuthService mock.
func newHandlerWithAuth(t *testing.T, auth service.AuthService) *Handler {
	t.Helper()
	svcs := &service.Services{
		AppInfoService: &mockAppInfoService{version: "test"},
		AuthService:    auth,
	}
	return NewHandler(svcs, logger.Nop())
}

// postJSON runs the given handler with a JSON request body and returns the recorder.
func postJSON(t *testing.T, handlerFn http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req = injectNopLogger(req)
	rec := httptest.NewRecorder()
	handlerFn(rec, req)
	return rec
}

// decodeBody unmarshals the recorder body into dst.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

// ─────────────────────────────────────────────
// registerStart
// ─────────────────────────────────────────────

func TestRegisterStart_Success(t *testing.T) {
	auth := &mockAuthService{
		registerStartFn: func(_ context.Context, email, password string) (string, error) {
			assert.Equal(t, "alice@example.com", email)
			assert.Equal(t, "s3cret", password)
			return models.DeliveryOK, nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.registerStart, "/api/auth/register",
		`{"email":"alice@example.com","password":"s3cret"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.PinIssueResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, models.DeliveryOK, resp.Delivery)
	assert.NotEmpty(t, resp.Message)
}

func TestRegisterStart_DegradedDeliveryIsStillOK(t *testing.T) {
	auth := &mockAuthService{
		registerStartFn: func(_ context.Context, _, _ string) (string, error) {
			return models.DeliveryDegraded, nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.registerStart, "/api/auth/register",
		`{"email":"alice@example.com","password":"s3cret"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.PinIssueResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, models.DeliveryDegraded, resp.Delivery)
}

func TestRegisterStart_InvalidJSON(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{})
	rec := postJSON(t, h.registerStart, "/api/auth/register", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid JSON was passed")
}

func TestRegisterStart_UserAlreadyExists(t *testing.T) {
	auth := &mockAuthService{
		registerStartFn: func(_ context.Context, _, _ string) (string, error) {
			return "", service.ErrUserAlreadyExists
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.registerStart, "/api/auth/register",
		`{"email":"taken@example.com","password":"s3cret"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterStart_InvalidData(t *testing.T) {
	auth := &mockAuthService{
		registerStartFn: func(_ context.Context, _, _ string) (string, error) {
			return "", service.ErrInvalidDataProvided
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.registerStart, "/api/auth/register", `{"email":"","password":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// registerConfirm
// ─────────────────────────────────────────────

func TestRegisterConfirm_Success(t *testing.T) {
	auth := &mockAuthService{
		registerConfirmFn: func(_ context.Context, email, pin string) (models.User, error) {
			assert.Equal(t, "alice@example.com", email)
			assert.Equal(t, "123456", pin)
			return models.User{UserID: 7, Email: email}, nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.registerConfirm, "/api/auth/register/verify",
		`{"email":"alice@example.com","pin":"123456"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRegisterConfirm_WrongPin(t *testing.T) {
	auth := &mockAuthService{
		registerConfirmFn: func(_ context.Context, _, _ string) (models.User, error) {
			return models.User{}, service.ErrInvalidPin
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.registerConfirm, "/api/auth/register/verify",
		`{"email":"alice@example.com","pin":"000000"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterConfirm_NoActivePin(t *testing.T) {
	auth := &mockAuthService{
		registerConfirmFn: func(_ context.Context, _, _ string) (models.User, error) {
			return models.User{}, store.ErrNoActivePin
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.registerConfirm, "/api/auth/register/verify",
		`{"email":"alice@example.com","pin":"123456"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// registerProvisionTOTP / registerConfirmToken
// ─────────────────────────────────────────────

func TestRegisterProvisionTOTP_Success(t *testing.T) {
	auth := &mockAuthService{
		provisionTOTPFn: func(_ context.Context, _, _ string) (models.PendingRegistrationResponse, error) {
			return models.PendingRegistrationResponse{
				RegistrationToken: "signed.pending.token",
				OtpauthURL:        "otpauth://totp/VaultGuard:alice%40example.com?issuer=VaultGuard&secret=ABC",
			}, nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.registerProvisionTOTP, "/api/auth/register/totp",
		`{"email":"alice@example.com","password":"s3cret"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.PendingRegistrationResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "signed.pending.token", resp.RegistrationToken)
	assert.Contains(t, resp.OtpauthURL, "otpauth://totp/")
}

func TestRegisterConfirmToken_Success(t *testing.T) {
	auth := &mockAuthService{
		registerConfirmTokenFn: func(_ context.Context, token, code string) (models.User, error) {
			assert.Equal(t, "signed.pending.token", token)
			assert.Equal(t, "654321", code)
			return models.User{UserID: 8, TwoFactorEnabled: true}, nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.registerConfirmToken, "/api/auth/register/confirm",
		`{"registration_token":"signed.pending.token","code":"654321"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRegisterConfirmToken_ExpiredToken(t *testing.T) {
	auth := &mockAuthService{
		registerConfirmTokenFn: func(_ context.Context, _, _ string) (models.User, error) {
			return models.User{}, service.ErrTokenIsExpiredOrInvalid
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.registerConfirmToken, "/api/auth/register/confirm",
		`{"registration_token":"stale","code":"654321"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterConfirmToken_WrongCode(t *testing.T) {
	auth := &mockAuthService{
		registerConfirmTokenFn: func(_ context.Context, _, _ string) (models.User, error) {
			return models.User{}, service.ErrUnauthorized
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.registerConfirmToken, "/api/auth/register/confirm",
		`{"registration_token":"signed.pending.token","code":"000000"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ─────────────────────────────────────────────
// loginStart
// ─────────────────────────────────────────────

func TestLoginStart_Success(t *testing.T) {
	auth := &mockAuthService{
		loginStartFn: func(_ context.Context, email, password string) (string, error) {
			assert.Equal(t, "alice@example.com", email)
			return models.DeliveryOK, nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.loginStart, "/api/auth/login",
		`{"email":"alice@example.com","password":"s3cret"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.PinIssueResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, models.DeliveryOK, resp.Delivery)
}

func TestLoginStart_BadCredentials(t *testing.T) {
	auth := &mockAuthService{
		loginStartFn: func(_ context.Context, _, _ string) (string, error) {
			return "", service.ErrUnauthorized
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.loginStart, "/api/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ─────────────────────────────────────────────
// loginConfirm
// ─────────────────────────────────────────────

func TestLoginConfirm_Success(t *testing.T) {
	const signedToken = "signed.jwt.token"

	auth := &mockAuthService{
		loginConfirmFn: func(_ context.Context, email, pin, totpCode string) (models.User, models.Token, error) {
			assert.Equal(t, "123456", pin)
			assert.Empty(t, totpCode)
			return models.User{UserID: 42, Email: email}, models.Token{SignedString: signedToken, UserID: 42}, nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.loginConfirm, "/api/auth/login/verify",
		`{"email":"alice@example.com","pin":"123456"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer "+signedToken, rec.Header().Get("Authorization"))

	var resp models.SessionResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, signedToken, resp.Token)
	assert.Equal(t, int64(42), resp.UserID)
}

func TestLoginConfirm_PassesTOTPCode(t *testing.T) {
	auth := &mockAuthService{
		loginConfirmFn: func(_ context.Context, _, _, totpCode string) (models.User, models.Token, error) {
			assert.Equal(t, "654321", totpCode)
			return models.User{UserID: 1}, models.Token{SignedString: "t"}, nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.loginConfirm, "/api/auth/login/verify",
		`{"email":"alice@example.com","pin":"123456","totp_code":"654321"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginConfirm_WrongPin(t *testing.T) {
	auth := &mockAuthService{
		loginConfirmFn: func(_ context.Context, _, _, _ string) (models.User, models.Token, error) {
			return models.User{}, models.Token{}, service.ErrInvalidPin
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.loginConfirm, "/api/auth/login/verify",
		`{"email":"alice@example.com","pin":"000000"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Header().Get("Authorization"))
}

func TestLoginConfirm_TOTPRejected(t *testing.T) {
	auth := &mockAuthService{
		loginConfirmFn: func(_ context.Context, _, _, _ string) (models.User, models.Token, error) {
			return models.User{}, models.Token{}, service.ErrUnauthorized
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.loginConfirm, "/api/auth/login/verify",
		`{"email":"alice@example.com","pin":"123456","totp_code":"000000"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ─────────────────────────────────────────────
// twoFactorVerify
// ─────────────────────────────────────────────

func TestTwoFactorVerify_Success(t *testing.T) {
	auth := &mockAuthService{
		twoFactorVerifyFn: func(_ context.Context, email, code string) error {
			assert.Equal(t, "alice@example.com", email)
			assert.Equal(t, "123456", code)
			return nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.twoFactorVerify, "/api/auth/2fa/verify",
		`{"email":"alice@example.com","code":"123456"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTwoFactorVerify_NotInitialized(t *testing.T) {
	auth := &mockAuthService{
		twoFactorVerifyFn: func(_ context.Context, _, _ string) error {
			return service.ErrTwoFactorNotInitialized
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.twoFactorVerify, "/api/auth/2fa/verify",
		`{"email":"nosecret@example.com","code":"123456"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTwoFactorVerify_WrongCode(t *testing.T) {
	auth := &mockAuthService{
		twoFactorVerifyFn: func(_ context.Context, _, _ string) error {
			return service.ErrUnauthorized
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.twoFactorVerify, "/api/auth/2fa/verify",
		`{"email":"alice@example.com","code":"000000"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ─────────────────────────────────────────────
// internal error masking
// ─────────────────────────────────────────────

func TestWriteError_MasksInternalDetails(t *testing.T) {
	auth := &mockAuthService{
		registerStartFn: func(_ context.Context, _, _ string) (string, error) {
			return "", store.ErrExecutingQuery
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := postJSON(t, h.registerStart, "/api/auth/register",
		`{"email":"alice@example.com","password":"s3cret"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), store.ErrExecutingQuery.Error())
}
