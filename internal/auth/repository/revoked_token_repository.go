package repository

import (
	"context"
	"time"

	"github.com/samber/oops"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/domain"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/constants"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/db"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
)

type RevokedTokenRepository interface {
	Revoke(ctx context.Context, jti string, userID domain.UserID, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type PgRevokedTokenRepository struct {
	db    db.DBTX
	log   *logger.Logger
	retry db.RetryConfig
}

func NewPgRevokedTokenRepository(conn db.DBTX, log *logger.Logger) *PgRevokedTokenRepository {
	return &PgRevokedTokenRepository{db: conn, log: log, retry: db.DefaultRetryConfig}
}

func (r *PgRevokedTokenRepository) WithRetryConfig(cfg db.RetryConfig) *PgRevokedTokenRepository {
	r.retry = cfg
	return r
}

func (r *PgRevokedTokenRepository) Revoke(ctx context.Context, jti string, userID domain.UserID, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	_, err := r.db.Exec(ctx, `
		INSERT INTO revoked_tokens (jti, user_id, expires_at, revoked_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (jti) DO NOTHING
	`, jti, string(userID), expiresAt)
	if err = db.HandleExecError(err, "revoke token", start); err != nil {
		return oops.Code("TOKEN_REVOKE_FAILED").With("jti", jti).Wrap(err)
	}
	return nil
}

func (r *PgRevokedTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	var exists bool
	err := db.WithRetry(ctx, r.log, r.retry, func(ctx context.Context) error {
		start := time.Now()
		scanErr := r.db.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM revoked_tokens
				WHERE jti = $1 AND expires_at > NOW()
			)
		`, jti).Scan(&exists)
		return db.HandleQueryError(scanErr, nil, "check revoked token", start)
	})
	if err != nil {
		return false, oops.Code("TOKEN_REVOCATION_CHECK_FAILED").With("jti", jti).Wrap(err)
	}
	return exists, nil
}

func (r *PgRevokedTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	tag, err := r.db.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < NOW()`)
	if err = db.HandleExecError(err, "delete expired revoked tokens", start); err != nil {
		return 0, oops.Code("REVOKED_TOKEN_CLEANUP_FAILED").Wrap(err)
	}
	return tag.RowsAffected(), nil
}
