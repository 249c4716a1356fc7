// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-vault-guard/internal/config"
	"github.com/MKhiriev/go-vault-guard/internal/logger"
	"github.com/MKhiriev/go-vault-guard/internal/otp"
	"github.com/MKhiriev/go-vault-guard/internal/store"
	"github.com/MKhiriev/go-vault-guard/internal/utils"
	"github.com/MKhiriev/go-vault-guard/models"
)

// passwordHashCost is the bcrypt cost used for account passwords.
const passwordHashCost = 10

// authService is the concrete implementation of AuthService.
//
// It drives the authentication state machine over a UserRepository and a
// PinService. Account rows are created only once a verification step
// succeeds; until then pending registration state lives either in the PIN
// record's auxiliary payload or inside a signed pending-registration token.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// pinService issues and verifies the single-use email codes that gate
	// both registration and login.
	pinService PinService

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued session JWT remains valid.
	tokenDuration time.Duration

	// pinTTL doubles as the lifetime of pending-registration tokens so both
	// pending representations expire on the same schedule.
	pinTTL time.Duration

	// totpIssuer is the issuer label placed in otpauth provisioning URIs.
	totpIssuer string

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// UserRepository and PinService and populated with security parameters
// from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, pinService PinService, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		pinService:     pinService,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		pinTTL:         cfg.PinTTL,
		totpIssuer:     cfg.TOTPIssuer,
		logger:         logger,
	}
}

// RegisterStart begins registration for a new email address.
//
// The password is hashed immediately and the hash travels as the auxiliary
// payload of the registration PIN; no account row exists until
// RegisterConfirm succeeds.
//
// Returns the mail delivery status or:
//   - ErrInvalidDataProvided if email or password is empty.
//   - ErrUserAlreadyExists if the email is already registered.
func (a *authService) RegisterStart(ctx context.Context, email, password string) (string, error) {
	log := logger.FromContext(ctx)

	if email == "" || password == "" {
		log.Error().Str("func", "authService.RegisterStart").Msg("empty email or password")
		return "", ErrInvalidDataProvided
	}

	if _, err := a.userRepository.FindUserByEmail(ctx, email); err == nil {
		log.Warn().Str("func", "authService.RegisterStart").Str("email", email).Msg("email already registered")
		return "", ErrUserAlreadyExists
	} else if !errors.Is(err, store.ErrNoUserWasFound) {
		return "", fmt.Errorf("user lookup failed: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("password hashing failed: %w", err)
	}

	delivery, err := a.pinService.Issue(ctx, email, models.PinPurposeRegister, string(passwordHash))
	if err != nil {
		return "", fmt.Errorf("registration pin issue failed: %w", err)
	}

	return delivery, nil
}

// RegisterConfirm completes registration once the emailed PIN is verified.
//
// The account is created from the password hash stored with the PIN record,
// with two-factor auth disabled. The existence check runs again here because
// the account could have been created between start and confirm.
func (a *authService) RegisterConfirm(ctx context.Context, email, pin string) (models.User, error) {
	log := logger.FromContext(ctx)

	if email == "" || pin == "" {
		log.Error().Str("func", "authService.RegisterConfirm").Msg("empty email or pin")
		return models.User{}, ErrInvalidDataProvided
	}

	record, err := a.pinService.Verify(ctx, email, models.PinPurposeRegister, pin)
	if err != nil {
		return models.User{}, fmt.Errorf("registration pin verification failed: %w", err)
	}

	user, err := a.userRepository.CreateUser(ctx, models.User{
		Email:        email,
		PasswordHash: record.PasswordHash,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			log.Warn().Str("func", "authService.RegisterConfirm").Str("email", email).Msg("email already registered")
			return models.User{}, ErrUserAlreadyExists
		}
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return user, nil
}

// RegisterProvisionTOTP starts the stateless registration path.
//
// A TOTP secret is derived up front and signed, together with the email and
// password hash, into a short-lived pending-registration token. Nothing is
// persisted; the token plus a correct TOTP code are all RegisterConfirmToken
// needs to create the account.
func (a *authService) RegisterProvisionTOTP(ctx context.Context, email, password string) (models.PendingRegistrationResponse, error) {
	log := logger.FromContext(ctx)

	if email == "" || password == "" {
		log.Error().Str("func", "authService.RegisterProvisionTOTP").Msg("empty email or password")
		return models.PendingRegistrationResponse{}, ErrInvalidDataProvided
	}

	if _, err := a.userRepository.FindUserByEmail(ctx, email); err == nil {
		log.Warn().Str("func", "authService.RegisterProvisionTOTP").Str("email", email).Msg("email already registered")
		return models.PendingRegistrationResponse{}, ErrUserAlreadyExists
	} else if !errors.Is(err, store.ErrNoUserWasFound) {
		return models.PendingRegistrationResponse{}, fmt.Errorf("user lookup failed: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return models.PendingRegistrationResponse{}, fmt.Errorf("password hashing failed: %w", err)
	}

	secret, err := otp.GenerateSecret(otp.DefaultSecretLength)
	if err != nil {
		return models.PendingRegistrationResponse{}, fmt.Errorf("totp secret generation failed: %w", err)
	}

	registrationToken, err := utils.GenerateRegistrationJWTToken(a.tokenIssuer, email, string(passwordHash), secret.Base32, a.pinTTL, a.tokenSignKey)
	if err != nil {
		return models.PendingRegistrationResponse{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return models.PendingRegistrationResponse{
		RegistrationToken: registrationToken,
		OtpauthURL:        otp.ProvisioningURI(secret.Base32, email, a.totpIssuer),
	}, nil
}

// RegisterConfirmToken finalizes the stateless registration path.
//
// The TOTP code is checked against the secret embedded in the token, so a
// successful confirmation proves authenticator enrollment and the account
// is created with two-factor auth already enabled.
func (a *authService) RegisterConfirmToken(ctx context.Context, registrationToken, code string) (models.User, error) {
	log := logger.FromContext(ctx)

	if registrationToken == "" || code == "" {
		log.Error().Str("func", "authService.RegisterConfirmToken").Msg("empty token or code")
		return models.User{}, ErrInvalidDataProvided
	}

	claims, err := utils.ValidateAndParseRegistrationJWTToken(registrationToken, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		log.Warn().Err(err).Str("func", "authService.RegisterConfirmToken").Msg("registration token rejected")
		return models.User{}, ErrTokenIsExpiredOrInvalid
	}

	if !otp.Verify(code, claims.TOTPSecret, otp.DefaultWindow) {
		log.Warn().Str("func", "authService.RegisterConfirmToken").Str("email", claims.Email).Msg("totp code rejected")
		return models.User{}, ErrUnauthorized
	}

	user, err := a.userRepository.CreateUser(ctx, models.User{
		Email:            claims.Email,
		PasswordHash:     claims.PasswordHash,
		TwoFactorEnabled: true,
		TwoFactorSecret:  claims.TOTPSecret,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return models.User{}, ErrUserAlreadyExists
		}
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return user, nil
}

// LoginStart verifies the account password and issues a login PIN.
//
// Unknown email and wrong password both return ErrUnauthorized so callers
// cannot enumerate accounts.
func (a *authService) LoginStart(ctx context.Context, email, password string) (string, error) {
	log := logger.FromContext(ctx)

	if email == "" || password == "" {
		log.Error().Str("func", "authService.LoginStart").Msg("empty email or password")
		return "", ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			log.Warn().Str("func", "authService.LoginStart").Str("email", email).Msg("unknown email")
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("user lookup failed: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		log.Warn().Str("func", "authService.LoginStart").Str("email", email).Msg("password mismatch")
		return "", ErrUnauthorized
	}

	delivery, err := a.pinService.Issue(ctx, email, models.PinPurposeLogin, "")
	if err != nil {
		return "", fmt.Errorf("login pin issue failed: %w", err)
	}

	return delivery, nil
}

// LoginConfirm verifies the login PIN and issues a session token.
//
// When the account has two-factor auth enabled a valid TOTP code is
// required in addition to the PIN. The TOTP factor is checked first:
// the PIN is single-use, so a mistyped TOTP code must not burn a
// still-valid PIN.
func (a *authService) LoginConfirm(ctx context.Context, email, pin, totpCode string) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	if email == "" || pin == "" {
		log.Error().Str("func", "authService.LoginConfirm").Msg("empty email or pin")
		return models.User{}, models.Token{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			log.Warn().Str("func", "authService.LoginConfirm").Str("email", email).Msg("unknown email")
			return models.User{}, models.Token{}, ErrUnauthorized
		}
		return models.User{}, models.Token{}, fmt.Errorf("user lookup failed: %w", err)
	}

	if user.TwoFactorEnabled && !otp.Verify(totpCode, user.TwoFactorSecret, otp.DefaultWindow) {
		log.Warn().Str("func", "authService.LoginConfirm").Str("email", email).Msg("totp code rejected")
		return models.User{}, models.Token{}, ErrUnauthorized
	}

	if _, err := a.pinService.Verify(ctx, email, models.PinPurposeLogin, pin); err != nil {
		return models.User{}, models.Token{}, fmt.Errorf("login pin verification failed: %w", err)
	}

	token, err := a.CreateToken(ctx, user)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	return user, token, nil
}

// TwoFactorVerify checks a TOTP code against the account's secret and
// enables two-factor auth on the first successful check.
func (a *authService) TwoFactorVerify(ctx context.Context, email, code string) error {
	log := logger.FromContext(ctx)

	if email == "" || code == "" {
		log.Error().Str("func", "authService.TwoFactorVerify").Msg("empty email or code")
		return ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return ErrTwoFactorNotInitialized
		}
		return fmt.Errorf("user lookup failed: %w", err)
	}

	if user.TwoFactorSecret == "" {
		return ErrTwoFactorNotInitialized
	}

	if !otp.Verify(code, user.TwoFactorSecret, otp.DefaultWindow) {
		log.Warn().Str("func", "authService.TwoFactorVerify").Str("email", email).Msg("totp code rejected")
		return ErrUnauthorized
	}

	if !user.TwoFactorEnabled {
		user.TwoFactorEnabled = true
		if err := a.userRepository.SaveUser(ctx, user); err != nil {
			return fmt.Errorf("enabling two-factor auth failed: %w", err)
		}
	}

	return nil
}

// CreateToken issues a signed JWT for the given user.
//
// The token is signed with the configured tokenSignKey, carries the configured
// tokenIssuer as the "iss" claim, and expires after tokenDuration.
//
// Returns the token model on success or a wrapped error if JWT generation fails.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// It delegates to utils.ValidateAndParseJWTToken, verifying the signature and
// the issuer claim. Any validation failure (expired, wrong issuer, malformed)
// is normalised to ErrTokenIsExpiredOrInvalid so that callers do not need to
// inspect low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
