package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-guard/internal/logger"
	"github.com/MKhiriev/go-vault-guard/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, lookup, and credential-state updates against
// the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new account record and returns the fully populated
// [models.User] with server-assigned fields (UserID, CreatedAt).
//
// The INSERT uses the [createUser] query which returns all columns via a
// RETURNING clause, so the caller receives the canonical database
// representation of the newly created account.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.Email, user.PasswordHash, user.TwoFactorEnabled, user.TwoFactorSecret)

	if err := row.Scan(&user.UserID, &user.Email, &user.PasswordHash, &user.TwoFactorEnabled, &user.TwoFactorSecret, &user.CreatedAt); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Str("email", user.Email).Msg("error: user was not created")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return user, nil
}

// FindUserByEmail retrieves the account whose Email matches the argument.
//
// Error handling:
//   - No matching row → [ErrNoUserWasFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	log := logger.FromContext(ctx)

	var foundUser models.User
	row := r.db.QueryRowContext(ctx, findUserByEmail, email)

	if err := row.Scan(&foundUser.UserID, &foundUser.Email, &foundUser.PasswordHash, &foundUser.TwoFactorEnabled, &foundUser.TwoFactorSecret, &foundUser.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*userRepository.FindUserByEmail").Str("email", email).Msg("error: scanning error")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return foundUser, nil
}

// SaveUser updates the mutable credential state (two-factor flag and secret)
// of an existing account. Returns [ErrNoUserWasFound] when the account no
// longer exists.
func (r *userRepository) SaveUser(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, saveUser, user.UserID, user.TwoFactorEnabled, user.TwoFactorSecret)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.SaveUser").Int64("user_id", user.UserID).Msg("error: user was not saved")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}
