package repository

import (
	"context"
	"errors"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/samber/oops"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/domain"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/constants"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/db"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrResetTokenNotFound    = errors.New("reset token not found")
)

const (
	emailConstraint    = "users_email_key"
	usernameConstraint = "users_username_key"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id domain.UserID) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByEmailOrUsername(ctx context.Context, identifier string) (domain.User, error)
	UpdateProfile(ctx context.Context, id domain.UserID, update domain.ProfileUpdate) (domain.User, error)
	SetResetToken(ctx context.Context, id domain.UserID, tokenHash string, expiresAt time.Time) error
	FindByResetTokenHash(ctx context.Context, tokenHash string) (domain.User, error)
	ResetPassword(ctx context.Context, id domain.UserID, tokenHash string, passwordHash []byte) error
	ClearExpiredResetTokens(ctx context.Context) (int64, error)
}

type PgUserRepository struct {
	db    db.DBTX
	log   *logger.Logger
	retry db.RetryConfig
}

func NewPgUserRepository(conn db.DBTX, log *logger.Logger) *PgUserRepository {
	return &PgUserRepository{db: conn, log: log, retry: db.DefaultRetryConfig}
}

func (r *PgUserRepository) WithRetryConfig(cfg db.RetryConfig) *PgUserRepository {
	r.retry = cfg
	return r
}

const userColumns = `id::text, username, email, password_hash, password_salt, date_of_birth,
		       COALESCE(profile_picture, ''), created_at, updated_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		user domain.User
		id   string
	)
	err := row.Scan(
		&id,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.PasswordSalt,
		&user.DateOfBirth,
		&user.ProfilePicture,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	user.ID = domain.UserID(id)
	return user, err
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	var profilePicture *string
	if user.ProfilePicture != "" {
		profilePicture = &user.ProfilePicture
	}

	start := time.Now()
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (
			id, username, email, password_hash, password_salt,
			date_of_birth, profile_picture, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		string(user.ID),
		user.Username,
		user.Email,
		user.PasswordHash,
		user.PasswordSalt,
		user.DateOfBirth,
		profilePicture,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err = db.HandleExecError(err, "create user", start); err != nil {
		if dupErr := duplicateError(err); dupErr != nil {
			return oops.Code("USER_DUPLICATE").With("operation", "insert user").Wrap(dupErr)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}
	return nil
}

func (r *PgUserRepository) FindByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	return r.findOne(ctx, "find user by id", `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, string(id))
}

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, "find user by email", `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)
}

// FindByEmailOrUsername prefers an email match when the identifier is one
// user's email and another user's username.
func (r *PgUserRepository) FindByEmailOrUsername(ctx context.Context, identifier string) (domain.User, error) {
	return r.findOne(ctx, "find user by email or username", `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1 OR username = $1
		ORDER BY (email = $1) DESC
		LIMIT 1
	`, identifier)
}

func (r *PgUserRepository) findOne(ctx context.Context, operation, query string, arg any) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	var user domain.User
	err := db.WithRetry(ctx, r.log, r.retry, func(ctx context.Context) error {
		start := time.Now()
		found, scanErr := scanUser(r.db.QueryRow(ctx, query, arg))
		if scanErr = db.HandleQueryError(scanErr, ErrUserNotFound, operation, start); scanErr != nil {
			return scanErr
		}
		user = found
		return nil
	})
	if errors.Is(err, ErrUserNotFound) {
		return domain.User{}, oops.Code("USER_NOT_FOUND").With("operation", operation).Wrap(ErrUserNotFound)
	}
	if err != nil {
		return domain.User{}, oops.Code("USER_QUERY_FAILED").With("operation", operation).Wrap(err)
	}
	return user, nil
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, id domain.UserID, update domain.ProfileUpdate) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	row := r.db.QueryRow(ctx, `
		UPDATE users
		SET username        = COALESCE($2, username),
		    email           = COALESCE($3, email),
		    profile_picture = COALESCE($4, profile_picture),
		    updated_at      = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		string(id),
		update.Username,
		update.Email,
		update.ProfilePicture,
	)

	user, err := scanUser(row)
	if err = db.HandleQueryError(err, ErrUserNotFound, "update user profile", start); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return domain.User{}, oops.Code("USER_NOT_FOUND").With("id", string(id)).Wrap(ErrUserNotFound)
		}
		if dupErr := duplicateError(err); dupErr != nil {
			return domain.User{}, oops.Code("USER_DUPLICATE").With("id", string(id)).Wrap(dupErr)
		}
		return domain.User{}, oops.Code("USER_UPDATE_FAILED").
			With("operation", "update profile").
			With("id", string(id)).
			Wrap(err)
	}
	return user, nil
}

func (r *PgUserRepository) SetResetToken(ctx context.Context, id domain.UserID, tokenHash string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET reset_token_hash = $2, reset_token_expires_at = $3, updated_at = NOW()
		WHERE id = $1
	`, string(id), tokenHash, expiresAt)
	if err = db.HandleExecError(err, "set password reset token", start); err != nil {
		return oops.Code("RESET_TOKEN_STORE_FAILED").With("id", string(id)).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").With("id", string(id)).Wrap(ErrUserNotFound)
	}
	return nil
}

func (r *PgUserRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	row := r.db.QueryRow(ctx, `
		SELECT id::text, reset_token_hash, reset_token_expires_at
		FROM users
		WHERE reset_token_hash = $1
	`, tokenHash)

	var (
		user domain.User
		id   string
	)
	err := row.Scan(&id, &user.ResetTokenHash, &user.ResetTokenExpiresAt)
	if err = db.HandleQueryError(err, ErrResetTokenNotFound, "find user by reset token", start); err != nil {
		if errors.Is(err, ErrResetTokenNotFound) {
			return domain.User{}, oops.Code("RESET_TOKEN_NOT_FOUND").Wrap(ErrResetTokenNotFound)
		}
		return domain.User{}, oops.Code("RESET_TOKEN_LOOKUP_FAILED").Wrap(err)
	}
	user.ID = domain.UserID(id)
	return user, nil
}

// ResetPassword stores the new hash and consumes the reset token in one
// statement, so a token can only ever be redeemed once.
func (r *PgUserRepository) ResetPassword(ctx context.Context, id domain.UserID, tokenHash string, passwordHash []byte) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_hash = $3,
		    reset_token_hash = NULL,
		    reset_token_expires_at = NULL,
		    updated_at = NOW()
		WHERE id = $1 AND reset_token_hash = $2
	`, string(id), tokenHash, passwordHash)
	if err = db.HandleExecError(err, "reset user password", start); err != nil {
		return oops.Code("PASSWORD_RESET_FAILED").With("id", string(id)).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("RESET_TOKEN_NOT_FOUND").With("id", string(id)).Wrap(ErrResetTokenNotFound)
	}
	return nil
}

func (r *PgUserRepository) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET reset_token_hash = NULL, reset_token_expires_at = NULL
		WHERE reset_token_expires_at < NOW()
	`)
	if err = db.HandleExecError(err, "clear expired reset tokens", start); err != nil {
		return 0, oops.Code("RESET_TOKEN_CLEANUP_FAILED").Wrap(err)
	}
	return tag.RowsAffected(), nil
}

// DeleteExpired lets the cleanup worker treat expired reset tokens like any
// other expiring record.
func (r *PgUserRepository) DeleteExpired(ctx context.Context) (int64, error) {
	return r.ClearExpiredResetTokens(ctx)
}

func duplicateError(err error) error {
	constraint, ok := db.UniqueViolation(err)
	if !ok {
		return nil
	}
	switch constraint {
	case emailConstraint:
		return ErrEmailAlreadyExists
	case usernameConstraint:
		return ErrUsernameAlreadyExists
	default:
		return nil
	}
}
