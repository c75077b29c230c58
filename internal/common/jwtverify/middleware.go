package jwtverify

import (
	"context"
	"net/http"
	"strings"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
)

type contextKey string

const claimsKey contextKey = "session_claims"

// VerifyFunc turns a raw session token into claims. Every failure must be
// reported as an error the ErrorWriter can render.
type VerifyFunc[C any] func(ctx context.Context, token string) (C, error)

type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// TokenFromRequest reads the session token from the named cookie and falls
// back to an "Authorization: Bearer" header for non-browser clients.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	raw := r.Header.Get("Authorization")
	if strings.HasPrefix(raw, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	}
	return ""
}

func Middleware[C any](cookieName string, verify VerifyFunc[C], writeErr ErrorWriter, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := verify(r.Context(), TokenFromRequest(r, cookieName))
			if err != nil {
				log.WithFields(r.Context(), logger.Fields{"path": r.URL.Path}).Debugf("session rejected: %v", err)
				writeErr(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims[C any](ctx context.Context, claims C) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func FromContext[C any](ctx context.Context) (C, bool) {
	claims, ok := ctx.Value(claimsKey).(C)
	return claims, ok
}
