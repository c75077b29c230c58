package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/domain"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/clock"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/constants"
	commoncrypto "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/crypto"
	commonerrors "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/errors"
)

const (
	ReasonMalformed = "malformed"
	ReasonSignature = "signature"
	ReasonExpired   = "expired"
	ReasonIssuer    = "issuer"
	ReasonAudience  = "audience"
	ReasonInvalid   = "invalid"
)

// TokenError keeps the internal reason a session token was rejected. Callers
// outside the service only ever see ErrUnauthorized.
type TokenError struct {
	Reason string
	Err    error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("session token %s: %v", e.Reason, e.Err)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

type sessionClaims struct {
	Email          string `json:"email"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret      []byte
	issuer      string
	audience    string
	ttl         time.Duration
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	parser      *jwt.Parser
}

func NewTokenService(cfg TokenConfig, idGenerator commoncrypto.IDGenerator, clk clock.Clock) (*TokenService, error) {
	if len(cfg.Secret) < constants.JWTSecretMinLength {
		return nil, commonerrors.ErrInvalidJWTSecret
	}
	if cfg.TTL <= 0 {
		cfg.TTL = constants.DefaultSessionTTL
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}

	return &TokenService{
		secret:      []byte(cfg.Secret),
		issuer:      cfg.Issuer,
		audience:    cfg.Audience,
		ttl:         cfg.TTL,
		idGenerator: idGenerator,
		clock:       clk,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(clk.Now),
		),
	}, nil
}

func (ts *TokenService) Issue(user domain.User) (string, domain.Claims, error) {
	jti, err := ts.idGenerator.NewID()
	if err != nil {
		return "", domain.Claims{}, fmt.Errorf("generate token id: %w", err)
	}

	now := ts.clock.Now().Truncate(time.Second)
	expiresAt := now.Add(ts.ttl)

	claims := sessionClaims{
		Email:          user.Email,
		Username:       user.Username,
		ProfilePicture: user.ProfilePicture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(user.ID),
			ID:        jti,
			Issuer:    ts.issuer,
			Audience:  jwt.ClaimStrings{ts.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return "", domain.Claims{}, fmt.Errorf("sign token: %w", err)
	}

	incrementSessionTokensIssued()
	return signed, toDomainClaims(claims), nil
}

func (ts *TokenService) Validate(tokenString string) (domain.Claims, error) {
	incrementJWTValidations()

	var claims sessionClaims
	_, err := ts.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return ts.secret, nil
	})
	if err != nil {
		tokenErr := &TokenError{Reason: classify(err), Err: err}
		incrementJWTValidationFailed(tokenErr.Reason)
		return domain.Claims{}, tokenErr
	}

	if claims.Subject == "" || claims.ID == "" {
		incrementJWTValidationFailed(ReasonInvalid)
		return domain.Claims{}, &TokenError{Reason: ReasonInvalid, Err: errors.New("missing sub or jti")}
	}

	return toDomainClaims(claims), nil
}

func classify(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ReasonIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ReasonAudience
	default:
		return ReasonInvalid
	}
}

func toDomainClaims(c sessionClaims) domain.Claims {
	claims := domain.Claims{
		UserID:         domain.UserID(c.Subject),
		Email:          c.Email,
		Username:       c.Username,
		ProfilePicture: c.ProfilePicture,
		TokenID:        c.ID,
		Issuer:         c.Issuer,
		Audience:       []string(c.Audience),
	}
	if c.IssuedAt != nil {
		claims.IssuedAt = c.IssuedAt.Time.UTC()
	}
	if c.ExpiresAt != nil {
		claims.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	return claims
}
