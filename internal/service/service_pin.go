// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-vault-guard/internal/config"
	"github.com/MKhiriev/go-vault-guard/internal/logger"
	"github.com/MKhiriev/go-vault-guard/internal/mailer"
	"github.com/MKhiriev/go-vault-guard/internal/store"
	"github.com/MKhiriev/go-vault-guard/internal/utils"
	"github.com/MKhiriev/go-vault-guard/models"
)

// pinHashCost is the bcrypt cost used for verification codes.
const pinHashCost = 10

// pinService is the concrete implementation of PinService.
//
// Issuance and delivery are decoupled: the code record is committed before
// the mail collaborator runs, and a delivery failure is reported as a
// degraded status rather than an error. Verification consumes the record
// atomically, so a given code can succeed at most once even under
// concurrent submissions.
type pinService struct {
	pinRepository store.PinRepository
	sender        mailer.PinSender
	uuidGenerator *utils.UUIDGenerator

	// pinTTL is how long an issued code stays verifiable.
	pinTTL time.Duration

	logger *logger.Logger
}

// NewPinService constructs a PinService backed by the given repository and
// delivery collaborator.
func NewPinService(pinRepository store.PinRepository, sender mailer.PinSender, cfg config.App, logger *logger.Logger) PinService {
	return &pinService{
		pinRepository: pinRepository,
		sender:        sender,
		uuidGenerator: utils.NewUUIDGenerator(),
		pinTTL:        cfg.PinTTL,
		logger:        logger,
	}
}

// Issue creates and delivers a fresh verification code.
//
// The plaintext code exists only in this call frame and in the outgoing
// email; the record stores its bcrypt hash. auxiliaryPayload travels with
// the record and comes back to the caller on successful verification
// (registration stores the password hash there).
func (p *pinService) Issue(ctx context.Context, email string, purpose models.PinPurpose, auxiliaryPayload string) (string, error) {
	log := logger.FromContext(ctx)

	if email == "" || !purpose.Valid() {
		log.Error().Str("func", "pinService.Issue").Str("email", email).Str("purpose", string(purpose)).Msg("invalid pin issue request")
		return "", ErrInvalidDataProvided
	}

	code, err := generatePinCode()
	if err != nil {
		log.Err(err).Str("func", "pinService.Issue").Msg("pin code generation failed")
		return "", fmt.Errorf("pin code generation failed: %w", err)
	}

	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), pinHashCost)
	if err != nil {
		log.Err(err).Str("func", "pinService.Issue").Msg("pin code hashing failed")
		return "", fmt.Errorf("pin code hashing failed: %w", err)
	}

	pin := models.EmailPin{
		ID:           p.uuidGenerator.Generate(),
		Email:        email,
		Purpose:      purpose,
		CodeHash:     string(codeHash),
		PasswordHash: auxiliaryPayload,
		ExpiresAt:    time.Now().Add(p.pinTTL),
	}

	if _, err := p.pinRepository.CreatePin(ctx, pin); err != nil {
		log.Err(err).Str("func", "pinService.Issue").Str("email", email).Msg("pin persistence failed")
		return "", fmt.Errorf("pin persistence failed: %w", err)
	}

	// The record stands regardless of what happens to the email.
	if err := p.sender.SendPin(ctx, email, code, purpose); err != nil {
		log.Warn().Err(err).Str("func", "pinService.Issue").Str("email", email).Msg("pin delivery degraded")
		return models.DeliveryDegraded, nil
	}

	return models.DeliveryOK, nil
}

// Verify checks the submitted code against the newest active record and
// consumes it on match.
//
// Returns:
//   - store.ErrNoActivePin when no unconsumed, unexpired record exists —
//     never-issued, expired, and already-consumed are indistinguishable.
//   - ErrInvalidPin when a record exists but the digits do not match.
//     Superseded codes fail here: only the newest record is compared.
//   - store.ErrPinAlreadyConsumed when a concurrent verification won the
//     consumed flip first.
func (p *pinService) Verify(ctx context.Context, email string, purpose models.PinPurpose, code string) (models.EmailPin, error) {
	log := logger.FromContext(ctx)

	if email == "" || code == "" || !purpose.Valid() {
		log.Error().Str("func", "pinService.Verify").Str("email", email).Str("purpose", string(purpose)).Msg("invalid pin verify request")
		return models.EmailPin{}, ErrInvalidDataProvided
	}

	pin, err := p.pinRepository.FindLatestActivePin(ctx, email, purpose)
	if err != nil {
		log.Err(err).Str("func", "pinService.Verify").Str("email", email).Msg("active pin lookup failed")
		return models.EmailPin{}, fmt.Errorf("active pin lookup failed: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(pin.CodeHash), []byte(code)) != nil {
		log.Warn().Str("func", "pinService.Verify").Str("email", email).Msg("pin mismatch")
		return models.EmailPin{}, ErrInvalidPin
	}

	if err := p.pinRepository.MarkConsumed(ctx, pin.ID); err != nil {
		log.Err(err).Str("func", "pinService.Verify").Str("pin_id", pin.ID).Msg("pin consumption failed")
		return models.EmailPin{}, fmt.Errorf("pin consumption failed: %w", err)
	}

	pin.Consumed = true
	return pin, nil
}

// generatePinCode returns a uniformly random 6-digit code with leading
// zeros preserved.
func generatePinCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
