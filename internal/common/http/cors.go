package http

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
)

// CORSMiddleware lets the browser client send the session cookie
// cross-origin. With no allowed origins the handler is returned unchanged.
func CORSMiddleware(allowedOrigins []string, log *logger.Logger) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", traceIDHeader},
		ExposedHeaders:   []string{traceIDHeader},
		AllowCredentials: true,
		MaxAge:           600,
	})

	log.Infof("CORS enabled for origins: %v", allowedOrigins)
	return c.Handler
}
