package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/repository"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
)

func newRevokedRepo(t *testing.T) (*repository.PgRevokedTokenRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)

	log, _ := logger.New("", "test", "error")
	return repository.NewPgRevokedTokenRepository(mock, log).WithRetryConfig(fastRetry), mock
}

func TestPgRevokedTokenRepository_Revoke(t *testing.T) {
	repo, mock := newRevokedRepo(t)
	expires := time.Now().Add(time.Hour).UTC()

	mock.ExpectExec(`INSERT INTO revoked_tokens`).
		WithArgs("jti-1", userID, expires).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Revoke(context.Background(), "jti-1", userID, expires))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRevokedTokenRepository_IsRevoked(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		want    bool
		wantErr bool
	}{
		{
			name: "revoked",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT EXISTS`).WithArgs("jti-1").
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
			},
			want: true,
		},
		{
			name: "not revoked",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT EXISTS`).WithArgs("jti-1").
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
			},
		},
		{
			name: "database error",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT EXISTS`).WithArgs("jti-1").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRevokedRepo(t)
			tt.setup(mock)

			got, err := repo.IsRevoked(context.Background(), "jti-1")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "connection refused")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPgRevokedTokenRepository_DeleteExpired(t *testing.T) {
	repo, mock := newRevokedRepo(t)
	mock.ExpectExec(`DELETE FROM revoked_tokens WHERE expires_at < NOW\(\)`).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	n, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
