package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/domain"
	authrepo "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/repository"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/service"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/clock"
	commoncrypto "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/crypto"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type mockUserRepo struct {
	createFunc                  func(ctx context.Context, user domain.User) error
	findByIDFunc                func(ctx context.Context, id domain.UserID) (domain.User, error)
	findByEmailFunc             func(ctx context.Context, email string) (domain.User, error)
	findByEmailOrUsernameFunc   func(ctx context.Context, identifier string) (domain.User, error)
	updateProfileFunc           func(ctx context.Context, id domain.UserID, update domain.ProfileUpdate) (domain.User, error)
	setResetTokenFunc           func(ctx context.Context, id domain.UserID, tokenHash string, expiresAt time.Time) error
	findByResetTokenHashFunc    func(ctx context.Context, tokenHash string) (domain.User, error)
	resetPasswordFunc           func(ctx context.Context, id domain.UserID, tokenHash string, passwordHash []byte) error
	clearExpiredResetTokensFunc func(ctx context.Context) (int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.User{}, authrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return domain.User{}, authrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByEmailOrUsername(ctx context.Context, identifier string) (domain.User, error) {
	if m.findByEmailOrUsernameFunc != nil {
		return m.findByEmailOrUsernameFunc(ctx, identifier)
	}
	return domain.User{}, authrepo.ErrUserNotFound
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id domain.UserID, update domain.ProfileUpdate) (domain.User, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, id, update)
	}
	return domain.User{}, authrepo.ErrUserNotFound
}

func (m *mockUserRepo) SetResetToken(ctx context.Context, id domain.UserID, tokenHash string, expiresAt time.Time) error {
	if m.setResetTokenFunc != nil {
		return m.setResetTokenFunc(ctx, id, tokenHash, expiresAt)
	}
	return nil
}

func (m *mockUserRepo) FindByResetTokenHash(ctx context.Context, tokenHash string) (domain.User, error) {
	if m.findByResetTokenHashFunc != nil {
		return m.findByResetTokenHashFunc(ctx, tokenHash)
	}
	return domain.User{}, authrepo.ErrResetTokenNotFound
}

func (m *mockUserRepo) ResetPassword(ctx context.Context, id domain.UserID, tokenHash string, passwordHash []byte) error {
	if m.resetPasswordFunc != nil {
		return m.resetPasswordFunc(ctx, id, tokenHash, passwordHash)
	}
	return nil
}

func (m *mockUserRepo) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	if m.clearExpiredResetTokensFunc != nil {
		return m.clearExpiredResetTokensFunc(ctx)
	}
	return 0, nil
}

type mockRevokedTokenRepo struct {
	mu      sync.Mutex
	revoked map[string]time.Time

	revokeErr    error
	isRevokedErr error
}

func newMockRevokedTokenRepo() *mockRevokedTokenRepo {
	return &mockRevokedTokenRepo{revoked: make(map[string]time.Time)}
}

func (m *mockRevokedTokenRepo) Revoke(_ context.Context, jti string, _ domain.UserID, expiresAt time.Time) error {
	if m.revokeErr != nil {
		return m.revokeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = expiresAt
	return nil
}

func (m *mockRevokedTokenRepo) IsRevoked(_ context.Context, jti string) (bool, error) {
	if m.isRevokedErr != nil {
		return false, m.isRevokedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

func (m *mockRevokedTokenRepo) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

type staticTokenGenerator struct {
	token string
	err   error
}

func (g staticTokenGenerator) Generate() (string, error) {
	return g.token, g.err
}

type recordingNotifier struct {
	mu     sync.Mutex
	tokens []string
}

func (n *recordingNotifier) NotifyResetToken(_ context.Context, _ domain.User, token string, _ time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tokens = append(n.tokens, token)
	return nil
}

type testEnv struct {
	svc      *service.AuthService
	tokens   *service.TokenService
	users    *mockUserRepo
	revoked  *mockRevokedTokenRepo
	hasher   commoncrypto.PasswordHasher
	notifier *recordingNotifier
	clock    *clock.MockClock
	log      *logger.Logger
}

func newTokenService(t *testing.T, clk clock.Clock) *service.TokenService {
	t.Helper()
	ts, err := service.NewTokenService(service.TokenConfig{
		Secret:   testSecret,
		Issuer:   "aidrams",
		Audience: "aidrams-web",
		TTL:      time.Hour,
	}, commoncrypto.NewUUIDGenerator(), clk)
	require.NoError(t, err)
	return ts
}

func setupAuthService(t *testing.T) *testEnv {
	t.Helper()
	return setupAuthServiceWith(t, &mockUserRepo{})
}

func setupAuthServiceWith(t *testing.T, users authrepo.UserRepository) *testEnv {
	t.Helper()

	mockClock := clock.NewMockClock(testNow)
	log := logger.NewWithWriter(testWriter{t}, "auth-test", "error")
	tokens := newTokenService(t, mockClock)
	revoked := newMockRevokedTokenRepo()
	hasher := commoncrypto.NewPBKDF2Hasher()
	notifier := &recordingNotifier{}

	svc := service.NewAuthService(service.AuthServiceDeps{
		Users:         users,
		RevokedTokens: revoked,
		Hasher:        hasher,
		IDGenerator:   commoncrypto.NewUUIDGenerator(),
		ResetTokens:   staticTokenGenerator{token: "reset-token-value"},
		Tokens:        tokens,
		Notifier:      notifier,
		Clock:         mockClock,
		Logger:        log,
	}, service.AuthServiceConfig{
		ResetTokenTTL:   time.Hour,
		TokenRevocation: true,
	})

	env := &testEnv{
		svc:      svc,
		tokens:   tokens,
		revoked:  revoked,
		hasher:   hasher,
		notifier: notifier,
		clock:    mockClock,
		log:      log,
	}
	if m, ok := users.(*mockUserRepo); ok {
		env.users = m
	}
	return env
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// memUserRepo is a small in-memory store that enforces the same uniqueness
// rules as the users table.
type memUserRepo struct {
	mockUserRepo
	mu    sync.Mutex
	users map[domain.UserID]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[domain.UserID]domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return authrepo.ErrEmailAlreadyExists
		}
		if existing.Username == user.Username {
			return authrepo.ErrUsernameAlreadyExists
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) FindByEmailOrUsername(_ context.Context, identifier string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == identifier {
			return u, nil
		}
	}
	for _, u := range r.users {
		if u.Username == identifier {
			return u, nil
		}
	}
	return domain.User{}, authrepo.ErrUserNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id domain.UserID) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, authrepo.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, authrepo.ErrUserNotFound
}

func (r *memUserRepo) SetResetToken(_ context.Context, id domain.UserID, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return authrepo.ErrUserNotFound
	}
	u.ResetTokenHash = tokenHash
	u.ResetTokenExpiresAt = &expiresAt
	r.users[id] = u
	return nil
}

func (r *memUserRepo) FindByResetTokenHash(_ context.Context, tokenHash string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetTokenHash != "" && u.ResetTokenHash == tokenHash {
			return u, nil
		}
	}
	return domain.User{}, authrepo.ErrResetTokenNotFound
}

func (r *memUserRepo) ResetPassword(_ context.Context, id domain.UserID, tokenHash string, passwordHash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.ResetTokenHash != tokenHash {
		return authrepo.ErrResetTokenNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetTokenHash = ""
	u.ResetTokenExpiresAt = nil
	r.users[id] = u
	return nil
}
