package http

import (
	"net/http"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/constants"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/httpmetrics"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
)

func BuildBaseHandler(log *logger.Logger, allowedOrigins []string, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	cors := CORSMiddleware(allowedOrigins, log)

	return SecurityHeadersMiddleware(cors(TraceIDMiddleware(recovery(maxRequestSize(metrics.Wrap(handler))))))
}
