// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-vault-guard/internal/config"
	"github.com/MKhiriev/go-vault-guard/internal/logger"
	"github.com/MKhiriev/go-vault-guard/internal/store"
	"github.com/MKhiriev/go-vault-guard/models"
)

// ─────────────────────────────────────────────
// Mock: store.PinRepository
// ─────────────────────────────────────────────

type mockPinRepository struct {
	createPinFn           func(ctx context.Context, pin models.EmailPin) (models.EmailPin, error)
	findLatestActivePinFn func(ctx context.Context, email string, purpose models.PinPurpose) (models.EmailPin, error)
	markConsumedFn        func(ctx context.Context, pinID string) error
	deleteExpiredFn       func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockPinRepository) CreatePin(ctx context.Context, pin models.EmailPin) (models.EmailPin, error) {
	if m.createPinFn != nil {
		return m.createPinFn(ctx, pin)
	}
	return pin, nil
}

func (m *mockPinRepository) FindLatestActivePin(ctx context.Context, email string, purpose models.PinPurpose) (models.EmailPin, error) {
	if m.findLatestActivePinFn != nil {
		return m.findLatestActivePinFn(ctx, email, purpose)
	}
	return models.EmailPin{}, store.ErrNoActivePin
}

func (m *mockPinRepository) MarkConsumed(ctx context.Context, pinID string) error {
	if m.markConsumedFn != nil {
		return m.markConsumedFn(ctx, pinID)
	}
	return nil
}

func (m *mockPinRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, now)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: mailer.PinSender
// ─────────────────────────────────────────────

type mockPinSender struct {
	sendPinFn func(ctx context.Context, to, code string, purpose models.PinPurpose) error

	// lastCode captures the plaintext code handed to delivery.
	lastCode string
}

func (m *mockPinSender) SendPin(ctx context.Context, to, code string, purpose models.PinPurpose) error {
	m.lastCode = code
	if m.sendPinFn != nil {
		return m.sendPinFn(ctx, to, code, purpose)
	}
	return nil
}

func newTestPinService(repo *mockPinRepository, sender *mockPinSender) PinService {
	return NewPinService(repo, sender, config.App{PinTTL: 10 * time.Minute}, logger.Nop())
}

// ─────────────────────────────────────────────
// Issue
// ─────────────────────────────────────────────

func TestPinService_Issue_Success(t *testing.T) {
	var created models.EmailPin
	repo := &mockPinRepository{
		createPinFn: func(_ context.Context, pin models.EmailPin) (models.EmailPin, error) {
			created = pin
			return pin, nil
		},
	}
	sender := &mockPinSender{}
	svc := newTestPinService(repo, sender)

	delivery, err := svc.Issue(context.Background(), "a@x.com", models.PinPurposeRegister, "$2a$10$payload")

	require.NoError(t, err)
	assert.Equal(t, models.DeliveryOK, delivery)

	// The delivered plaintext is exactly six digits and matches the stored hash.
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), sender.lastCode)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.CodeHash), []byte(sender.lastCode)))

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "a@x.com", created.Email)
	assert.Equal(t, models.PinPurposeRegister, created.Purpose)
	assert.Equal(t, "$2a$10$payload", created.PasswordHash)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), created.ExpiresAt, 5*time.Second)
}

func TestPinService_Issue_DegradedDelivery(t *testing.T) {
	repo := &mockPinRepository{}
	sender := &mockPinSender{
		sendPinFn: func(_ context.Context, _, _ string, _ models.PinPurpose) error {
			return errors.New("smtp down")
		},
	}
	svc := newTestPinService(repo, sender)

	delivery, err := svc.Issue(context.Background(), "a@x.com", models.PinPurposeLogin, "")

	// Delivery failure is not fatal: the record stands.
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryDegraded, delivery)
}

func TestPinService_Issue_PersistenceFailureIsFatal(t *testing.T) {
	repo := &mockPinRepository{
		createPinFn: func(_ context.Context, _ models.EmailPin) (models.EmailPin, error) {
			return models.EmailPin{}, errors.New("db down")
		},
	}
	sender := &mockPinSender{}
	svc := newTestPinService(repo, sender)

	_, err := svc.Issue(context.Background(), "a@x.com", models.PinPurposeLogin, "")

	require.Error(t, err)
	assert.Empty(t, sender.lastCode, "no delivery attempt after persistence failure")
}

func TestPinService_Issue_InvalidInput(t *testing.T) {
	svc := newTestPinService(&mockPinRepository{}, &mockPinSender{})

	_, err := svc.Issue(context.Background(), "", models.PinPurposeLogin, "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.Issue(context.Background(), "a@x.com", models.PinPurpose("reset"), "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

// ─────────────────────────────────────────────
// Verify
// ─────────────────────────────────────────────

func hashedPin(t *testing.T, code string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestPinService_Verify_Success(t *testing.T) {
	consumedID := ""
	repo := &mockPinRepository{
		findLatestActivePinFn: func(_ context.Context, email string, purpose models.PinPurpose) (models.EmailPin, error) {
			return models.EmailPin{
				ID:           "pin-1",
				Email:        email,
				Purpose:      purpose,
				CodeHash:     hashedPin(t, "042042"),
				PasswordHash: "$2a$10$payload",
			}, nil
		},
		markConsumedFn: func(_ context.Context, pinID string) error {
			consumedID = pinID
			return nil
		},
	}
	svc := newTestPinService(repo, &mockPinSender{})

	pin, err := svc.Verify(context.Background(), "a@x.com", models.PinPurposeRegister, "042042")

	require.NoError(t, err)
	assert.Equal(t, "pin-1", consumedID)
	assert.True(t, pin.Consumed)
	assert.Equal(t, "$2a$10$payload", pin.PasswordHash)
}

func TestPinService_Verify_NoActivePin(t *testing.T) {
	svc := newTestPinService(&mockPinRepository{}, &mockPinSender{})

	_, err := svc.Verify(context.Background(), "a@x.com", models.PinPurposeLogin, "123456")

	assert.ErrorIs(t, err, store.ErrNoActivePin)
}

func TestPinService_Verify_WrongCodeDoesNotConsume(t *testing.T) {
	consumed := false
	repo := &mockPinRepository{
		findLatestActivePinFn: func(_ context.Context, _ string, _ models.PinPurpose) (models.EmailPin, error) {
			return models.EmailPin{ID: "pin-1", CodeHash: hashedPin(t, "042042")}, nil
		},
		markConsumedFn: func(_ context.Context, _ string) error {
			consumed = true
			return nil
		},
	}
	svc := newTestPinService(repo, &mockPinSender{})

	_, err := svc.Verify(context.Background(), "a@x.com", models.PinPurposeLogin, "999999")

	assert.ErrorIs(t, err, ErrInvalidPin)
	assert.False(t, consumed, "state must stay untouched on mismatch")
}

func TestPinService_Verify_LostConsumeRace(t *testing.T) {
	repo := &mockPinRepository{
		findLatestActivePinFn: func(_ context.Context, _ string, _ models.PinPurpose) (models.EmailPin, error) {
			return models.EmailPin{ID: "pin-1", CodeHash: hashedPin(t, "042042")}, nil
		},
		markConsumedFn: func(_ context.Context, _ string) error {
			return store.ErrPinAlreadyConsumed
		},
	}
	svc := newTestPinService(repo, &mockPinSender{})

	_, err := svc.Verify(context.Background(), "a@x.com", models.PinPurposeLogin, "042042")

	assert.ErrorIs(t, err, store.ErrPinAlreadyConsumed)
}

func TestGeneratePinCode_AlwaysSixDigits(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 200; i++ {
		code, err := generatePinCode()
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
}
