package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	commonhttp "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/http"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
)

func TestCORSMiddleware_PreflightAllowsBearerHeader(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, "test", "error")
	handler := commonhttp.CORSMiddleware([]string{"https://aidrams.example"}, log)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/check-auth", nil)
	req.Header.Set("Origin", "https://aidrams.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "authorization")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://aidrams.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers")), "authorization")
}

func TestCORSMiddleware_RejectsUnknownOrigin(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, "test", "error")
	handler := commonhttp.CORSMiddleware([]string{"https://aidrams.example"}, log)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/check-auth", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
