package http

import (
	"net/http"
	"runtime/debug"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
)

func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(r.Context(), logger.Fields{"path": r.URL.Path}).Errorf("panic recovered: %v\n%s", err, debug.Stack())
					WriteErrorEnvelope(w, http.StatusInternalServerError, CodeInternal, "internal server error", nil, TraceID(r.Context()))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
