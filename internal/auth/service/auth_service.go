package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/domain"
	authrepo "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/repository"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/clock"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/constants"
	commoncrypto "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/crypto"
	commonerrors "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/errors"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/resilience"
)

type AuthServiceDeps struct {
	Users          authrepo.UserRepository
	RevokedTokens  authrepo.RevokedTokenRepository
	Hasher         commoncrypto.PasswordHasher
	IDGenerator    commoncrypto.IDGenerator
	ResetTokens    commoncrypto.TokenGenerator
	Tokens         *TokenService
	Notifier       ResetTokenNotifier
	CircuitBreaker *resilience.CircuitBreaker
	Clock          clock.Clock
	Logger         *logger.Logger
}

type AuthServiceConfig struct {
	ResetTokenTTL   time.Duration
	TokenRevocation bool
}

type AuthService struct {
	users         authrepo.UserRepository
	revokedTokens authrepo.RevokedTokenRepository
	hasher        commoncrypto.PasswordHasher
	idGenerator   commoncrypto.IDGenerator
	resetTokens   commoncrypto.TokenGenerator
	tokens        *TokenService
	notifier      ResetTokenNotifier
	breaker       *resilience.CircuitBreaker
	validator     *InputValidator
	clock         clock.Clock
	log           *logger.Logger

	resetTokenTTL   time.Duration
	tokenRevocation bool
	dummySalt       []byte
}

func NewAuthService(deps AuthServiceDeps, cfg AuthServiceConfig) *AuthService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = NewLogNotifier(deps.Logger)
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = constants.DefaultResetTokenTTL
	}

	return &AuthService{
		users:           deps.Users,
		revokedTokens:   deps.RevokedTokens,
		hasher:          deps.Hasher,
		idGenerator:     deps.IDGenerator,
		resetTokens:     deps.ResetTokens,
		tokens:          deps.Tokens,
		notifier:        notifier,
		breaker:         deps.CircuitBreaker,
		validator:       NewInputValidator(clk),
		clock:           clk,
		log:             deps.Logger,
		resetTokenTTL:   cfg.ResetTokenTTL,
		tokenRevocation: cfg.TokenRevocation && deps.RevokedTokens != nil,
		dummySalt:       make([]byte, constants.PasswordSaltSize),
	}
}

type RegisterInput struct {
	Username       string    `field:"username" validate:"required,min=3,max=100"`
	Email          string    `field:"email" validate:"required,email,max=255"`
	Password       string    `field:"password" validate:"required,min=8"`
	DateOfBirth    time.Time `field:"dateOfBirth" validate:"required,past"`
	ProfilePicture string    `field:"profilePicture" validate:"omitempty,max=2048"`
}

type LoginInput struct {
	Identifier string `field:"emailOrUsername" validate:"required"`
	Password   string `field:"password" validate:"required"`
}

type UpdateProfileInput struct {
	Username       *string `field:"username" validate:"omitempty,min=3,max=100"`
	Email          *string `field:"email" validate:"omitempty,email,max=255"`
	ProfilePicture *string `field:"profilePicture" validate:"omitempty,max=2048"`
}

type ForgotPasswordInput struct {
	Email string `field:"email" validate:"required,email,max=255"`
}

type ResetPasswordInput struct {
	Token       string `field:"token" validate:"required,max=128"`
	NewPassword string `field:"newPassword" validate:"required,min=8"`
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Claims    domain.Claims
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (result AuthResult, err error) {
	defer func() { recordOperation("register", err) }()

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.ProfilePicture = strings.TrimSpace(input.ProfilePicture)

	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := s.validator.Validate(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return AuthResult{}, err
	}

	hash, salt, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return AuthResult{}, newInternalError("PASSWORD_HASH_FAILED", "failed to process password", err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		return AuthResult{}, newInternalError("ID_GENERATION_FAILED", "failed to create user", err)
	}

	now := s.clock.Now().UTC()
	user := domain.User{
		ID:             domain.UserID(id),
		Username:       input.Username,
		Email:          input.Email,
		PasswordHash:   hash,
		PasswordSalt:   salt,
		DateOfBirth:    input.DateOfBirth.UTC(),
		ProfilePicture: input.ProfilePicture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.call(ctx, func(ctx context.Context) error {
		return s.users.Create(ctx, user)
	})
	if err != nil {
		if dupErr, ok := handleDuplicateError(err); ok {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_duplicate",
			}).Warnf("register failed: %v", dupErr)
			return AuthResult{}, dupErr
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return AuthResult{}, s.storeError("USER_CREATE_FAILED", "failed to create user", err)
	}
	incrementUsersRegistered()

	result, err = s.issue(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		return AuthResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	return result, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (result AuthResult, err error) {
	defer func() { recordOperation("login", err) }()

	input.Identifier = strings.TrimSpace(input.Identifier)

	s.log.WithFields(ctx, logger.Fields{
		"identifier": input.Identifier,
		"action":     "login_attempt",
	}).Info("login attempt")

	if err := s.validator.Validate(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"identifier": input.Identifier,
			"action":     "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		return AuthResult{}, err
	}

	var user domain.User
	err = s.call(ctx, func(ctx context.Context) error {
		var findErr error
		user, findErr = s.users.FindByEmailOrUsername(ctx, input.Identifier)
		return findErr
	})
	if err != nil {
		if errors.Is(err, authrepo.ErrUserNotFound) {
			// Same cost as a real verification so response time does not
			// reveal whether the identifier exists.
			s.hasher.HashWithSalt(input.Password, s.dummySalt)
			s.log.WithFields(ctx, logger.Fields{
				"identifier": input.Identifier,
				"action":     "login_unknown_identifier",
			}).Warn("login failed: invalid credentials")
			return AuthResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"identifier": input.Identifier,
			"action":     "login_lookup_failed",
		}).Errorf("login failed: %v", err)
		return AuthResult{}, s.storeError("USER_LOOKUP_FAILED", "failed to load user", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash, user.PasswordSalt) {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_wrong_password",
		}).Warn("login failed: invalid credentials")
		return AuthResult{}, ErrInvalidCredentials
	}

	result, err = s.issue(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return AuthResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")

	return result, nil
}

func (s *AuthService) CheckAuth(ctx context.Context, token string) (domain.Claims, error) {
	if token == "" {
		return domain.Claims{}, ErrMissingSession
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		var tokenErr *TokenError
		reason := ReasonInvalid
		if errors.As(err, &tokenErr) {
			reason = tokenErr.Reason
		}
		s.log.WithFields(ctx, logger.Fields{
			"reason": reason,
			"action": "check_auth_rejected",
		}).Debugf("session token rejected: %v", err)
		return domain.Claims{}, ErrUnauthorized.WithCause(err)
	}

	if !s.tokenRevocation {
		return claims, nil
	}

	incrementRevokedChecks()
	var revoked bool
	err = s.call(ctx, func(ctx context.Context) error {
		var checkErr error
		revoked, checkErr = s.revokedTokens.IsRevoked(ctx, claims.TokenID)
		return checkErr
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(claims.UserID),
			"action":  "check_auth_revocation_lookup_failed",
		}).Errorf("revocation check failed: %v", err)
		return domain.Claims{}, s.storeError("REVOCATION_CHECK_FAILED", "failed to verify session", err)
	}
	if revoked {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(claims.UserID),
			"reason":  "revoked",
			"action":  "check_auth_rejected",
		}).Debug("session token rejected: revoked")
		return domain.Claims{}, ErrUnauthorized
	}

	return claims, nil
}

// Logout revokes the presented session token when revocation is enabled.
// Nothing here can fail the request; the caller clears the cookie regardless.
func (s *AuthService) Logout(ctx context.Context, token string) {
	recordOperation("logout", nil)

	if !s.tokenRevocation || token == "" {
		return
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "logout_invalid_token",
		}).Debugf("logout with unusable token: %v", err)
		return
	}

	err = s.call(ctx, func(ctx context.Context) error {
		return s.revokedTokens.Revoke(ctx, claims.TokenID, claims.UserID, claims.ExpiresAt)
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(claims.UserID),
			"action":  "logout_revoke_failed",
		}).Errorf("token revocation failed: %v", err)
		return
	}
	incrementSessionTokensRevoked()

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(claims.UserID),
		"action":  "logout_success",
	}).Info("session token revoked")
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID domain.UserID, input UpdateProfileInput) (user domain.User, err error) {
	defer func() { recordOperation("update_profile", err) }()

	input.Username = nonBlank(input.Username)
	input.Email = nonBlank(input.Email)
	input.ProfilePicture = nonBlank(input.ProfilePicture)

	if err := s.validator.Validate(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"action":  "update_profile_validation_failed",
		}).Warnf("update profile validation failed: %v", err)
		return domain.User{}, err
	}

	update := domain.ProfileUpdate{
		Username:       input.Username,
		Email:          input.Email,
		ProfilePicture: input.ProfilePicture,
	}

	err = s.call(ctx, func(ctx context.Context) error {
		var opErr error
		if update.IsEmpty() {
			user, opErr = s.users.FindByID(ctx, userID)
		} else {
			user, opErr = s.users.UpdateProfile(ctx, userID, update)
		}
		return opErr
	})
	if err != nil {
		if errors.Is(err, authrepo.ErrUserNotFound) {
			return domain.User{}, ErrNotFound
		}
		if dupErr, ok := handleDuplicateError(err); ok {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": string(userID),
				"action":  "update_profile_duplicate",
			}).Warnf("update profile failed: %v", dupErr)
			return domain.User{}, dupErr
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"action":  "update_profile_failed",
		}).Errorf("update profile failed: %v", err)
		return domain.User{}, s.storeError("USER_UPDATE_FAILED", "failed to update profile", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(userID),
		"action":  "update_profile_success",
	}).Info("profile updated")

	return user, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, input ForgotPasswordInput) (ticket domain.ResetTicket, err error) {
	defer func() { recordOperation("forgot_password", err) }()

	input.Email = strings.TrimSpace(input.Email)
	if err := s.validator.Validate(input); err != nil {
		return domain.ResetTicket{}, err
	}

	var user domain.User
	err = s.call(ctx, func(ctx context.Context) error {
		var findErr error
		user, findErr = s.users.FindByEmail(ctx, input.Email)
		return findErr
	})
	if err != nil {
		if errors.Is(err, authrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"action": "forgot_password_unknown_email",
			}).Warn("forgot password for unknown email")
			return domain.ResetTicket{}, ErrNotFound
		}
		return domain.ResetTicket{}, s.storeError("USER_LOOKUP_FAILED", "failed to load user", err)
	}

	token, err := s.resetTokens.Generate()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "forgot_password_token_failed",
		}).Errorf("reset token generation failed: %v", err)
		return domain.ResetTicket{}, newInternalError("RESET_TOKEN_GENERATION_FAILED", "failed to create reset token", err)
	}
	expiresAt := s.clock.Now().UTC().Add(s.resetTokenTTL)

	err = s.call(ctx, func(ctx context.Context) error {
		return s.users.SetResetToken(ctx, user.ID, commoncrypto.HashToken(token), expiresAt)
	})
	if err != nil {
		if errors.Is(err, authrepo.ErrUserNotFound) {
			return domain.ResetTicket{}, ErrNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "forgot_password_store_failed",
		}).Errorf("reset token store failed: %v", err)
		return domain.ResetTicket{}, s.storeError("RESET_TOKEN_STORE_FAILED", "failed to create reset token", err)
	}
	incrementResetTokensIssued()

	if notifyErr := s.notifier.NotifyResetToken(ctx, user, token, expiresAt); notifyErr != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "forgot_password_notify_failed",
		}).Errorf("reset token delivery failed: %v", notifyErr)
	}

	return domain.ResetTicket{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) (err error) {
	defer func() { recordOperation("reset_password", err) }()

	input.Token = strings.TrimSpace(input.Token)
	if err := s.validator.Validate(input); err != nil {
		return err
	}

	tokenHash := commoncrypto.HashToken(input.Token)

	var holder domain.User
	err = s.call(ctx, func(ctx context.Context) error {
		var findErr error
		holder, findErr = s.users.FindByResetTokenHash(ctx, tokenHash)
		return findErr
	})
	if err != nil {
		if errors.Is(err, authrepo.ErrResetTokenNotFound) {
			return ErrInvalidResetToken
		}
		return s.storeError("RESET_TOKEN_LOOKUP_FAILED", "failed to reset password", err)
	}

	if holder.ResetTokenExpiresAt == nil || !s.clock.Now().Before(*holder.ResetTokenExpiresAt) {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(holder.ID),
			"action":  "reset_password_token_expired",
		}).Warn("reset password with expired token")
		return ErrInvalidResetToken
	}

	var user domain.User
	err = s.call(ctx, func(ctx context.Context) error {
		var findErr error
		user, findErr = s.users.FindByID(ctx, holder.ID)
		return findErr
	})
	if err != nil {
		if errors.Is(err, authrepo.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return s.storeError("USER_LOOKUP_FAILED", "failed to reset password", err)
	}

	newHash := s.hasher.HashWithSalt(input.NewPassword, user.PasswordSalt)
	err = s.call(ctx, func(ctx context.Context) error {
		return s.users.ResetPassword(ctx, user.ID, tokenHash, newHash)
	})
	if err != nil {
		if errors.Is(err, authrepo.ErrResetTokenNotFound) {
			return ErrInvalidResetToken
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "reset_password_store_failed",
		}).Errorf("reset password failed: %v", err)
		return s.storeError("PASSWORD_RESET_FAILED", "failed to reset password", err)
	}
	incrementPasswordResetsCompleted()

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "reset_password_success",
	}).Info("password reset")

	return nil
}

func (s *AuthService) issue(user domain.User) (AuthResult, error) {
	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, newInternalError("TOKEN_ISSUE_FAILED", "failed to issue session token", err)
	}
	return AuthResult{Token: token, ExpiresAt: claims.ExpiresAt, Claims: claims}, nil
}

func (s *AuthService) call(ctx context.Context, fn func(context.Context) error) error {
	if s.breaker == nil {
		return fn(ctx)
	}
	return s.breaker.Call(ctx, fn)
}

func (s *AuthService) storeError(code, message string, err error) error {
	if errors.Is(err, commonerrors.ErrCircuitOpen) {
		return handleCircuitBreakerError(err)
	}
	return newInternalError(code, message, err)
}
