package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-guard/internal/logger"
	"github.com/MKhiriev/go-vault-guard/models"
)

// pinRepository is the PostgreSQL-backed implementation of [PinRepository].
// It owns the "email_pins" table: the short-lived, single-use verification
// codes issued during registration and login.
type pinRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewPinRepository constructs a [PinRepository] backed by the provided
// database connection and logger.
func NewPinRepository(db *DB, logger *logger.Logger) PinRepository {
	logger.Debug().Msg("creating pin repository")
	return &pinRepository{
		db:     db,
		logger: logger,
	}
}

// CreatePin persists a new verification-code record and returns it with
// server-assigned fields (Consumed=false, CreatedAt) populated.
func (r *pinRepository) CreatePin(ctx context.Context, pin models.EmailPin) (models.EmailPin, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createPin, pin.ID, pin.Email, pin.Purpose, pin.CodeHash, pin.PasswordHash, pin.ExpiresAt)

	if err := row.Scan(&pin.ID, &pin.Email, &pin.Purpose, &pin.CodeHash, &pin.PasswordHash, &pin.Consumed, &pin.ExpiresAt, &pin.CreatedAt); err != nil {
		log.Err(err).Str("func", "*pinRepository.CreatePin").Str("email", pin.Email).Str("purpose", string(pin.Purpose)).Msg("error: pin was not created")
		return models.EmailPin{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return pin, nil
}

// FindLatestActivePin returns the newest non-consumed record for
// (email, purpose) whose expiry lies after now.
//
// An empty result collapses "never issued", "expired", and "all consumed"
// into the single [ErrNoActivePin]; the distinction is withheld from callers
// on purpose.
func (r *pinRepository) FindLatestActivePin(ctx context.Context, email string, purpose models.PinPurpose) (models.EmailPin, error) {
	log := logger.FromContext(ctx)

	var pin models.EmailPin
	row := r.db.QueryRowContext(ctx, findLatestActivePin, email, purpose, time.Now())

	if err := row.Scan(&pin.ID, &pin.Email, &pin.Purpose, &pin.CodeHash, &pin.PasswordHash, &pin.Consumed, &pin.ExpiresAt, &pin.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.EmailPin{}, ErrNoActivePin
		}

		log.Err(err).Str("func", "*pinRepository.FindLatestActivePin").Str("email", email).Msg("error: scanning error")
		return models.EmailPin{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return pin, nil
}

// MarkConsumed flips the consumed flag of the record with the given ID in a
// single conditional UPDATE (WHERE consumed = FALSE). When two submissions
// of the same code race, the database serializes them and exactly one caller
// observes a row count of one; the loser gets [ErrPinAlreadyConsumed].
func (r *pinRepository) MarkConsumed(ctx context.Context, pinID string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, markPinConsumed, pinID)
	if err != nil {
		log.Err(err).Str("func", "*pinRepository.MarkConsumed").Str("pin_id", pinID).Msg("error: consumed flip failed")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrPinAlreadyConsumed
	}

	return nil
}

// DeleteExpired physically removes every record whose expiry is at or before
// now and reports how many rows were deleted. Verification never depends on
// this sweep: expiry is always re-checked against the clock on read.
func (r *pinRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteExpiredPins, now)
	if err != nil {
		log.Err(err).Str("func", "*pinRepository.DeleteExpired").Msg("error: sweep failed")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return deleted, nil
}
