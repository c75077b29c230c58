package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/domain"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/service"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/constants"
	commonhttp "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/http"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/jwtverify"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
)

type registerRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	DateOfBirth    string `json:"dateOfBirth"`
	ProfilePicture string `json:"profilePicture"`
}

// loginRequest accepts the documented emailOrUsername field as well as the
// plain email or username fields some clients send instead.
type loginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
}

func (r loginRequest) identifier() string {
	for _, v := range []string{r.EmailOrUsername, r.Email, r.Username} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

type updateProfileRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	ProfilePicture *string `json:"profilePicture"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type checkAuthResponse struct {
	Message string         `json:"message"`
	User    map[string]any `json:"user"`
}

type forgotPasswordResponse struct {
	Message    string     `json:"message"`
	ResetToken string     `json:"resetToken,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// Pinger is satisfied by the database pool and backs the health endpoint.
type Pinger = commonhttp.Pinger

type RouterConfig struct {
	Cookies        CookiePolicy
	RequestTimeout time.Duration
	// ExposeResetToken returns the reset token in the forgot-password
	// response. Only meant for development without a delivery channel.
	ExposeResetToken bool
	RateLimiter      *commonhttp.StrictRateLimiter
	DB               Pinger
}

type Handler struct {
	auth             *service.AuthService
	cookies          CookiePolicy
	errHandler       *commonhttp.ErrorHandler
	exposeResetToken bool
	log              *logger.Logger
}

func NewRouter(auth *service.AuthService, cfg RouterConfig, log *logger.Logger) *http.ServeMux {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = constants.DefaultAuthRequestTimeout
	}

	h := &Handler{
		auth:             auth,
		cookies:          cfg.Cookies,
		errHandler:       commonhttp.NewErrorHandler(log),
		exposeResetToken: cfg.ExposeResetToken,
		log:              log,
	}

	timeout := commonhttp.WithTimeout(cfg.RequestTimeout)
	route := func(method, path string, fn http.HandlerFunc) http.Handler {
		var handler http.Handler = commonhttp.RequireMethod(method)(timeout(fn))
		if cfg.RateLimiter != nil {
			handler = cfg.RateLimiter.MiddlewareForPath(path)(handler)
		}
		return handler
	}

	requireSession := jwtverify.Middleware[domain.Claims](
		cfg.Cookies.Name,
		h.auth.CheckAuth,
		h.errHandler.HandleError,
		log,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log, cfg.DB))
	mux.Handle("/api/auth/register", route(http.MethodPost, "/api/auth/register", h.register))
	mux.Handle("/api/auth/login", route(http.MethodPost, "/api/auth/login", h.login))
	mux.Handle("/api/auth/check-auth", route(http.MethodGet, "/api/auth/check-auth", h.checkAuth))
	mux.Handle("/api/auth/logout", route(http.MethodPost, "/api/auth/logout", h.logout))
	mux.Handle("/api/auth/update-profile/{userId}",
		route(http.MethodPut, "/api/auth/update-profile", func(w http.ResponseWriter, r *http.Request) {
			requireSession(http.HandlerFunc(h.updateProfile)).ServeHTTP(w, r)
		}))
	mux.Handle("/api/auth/forgot-password", route(http.MethodPost, "/api/auth/forgot-password", h.forgotPassword))
	mux.Handle("/api/auth/reset-password", route(http.MethodPost, "/api/auth/reset-password", h.resetPassword))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req, "register") {
		return
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		h.errHandler.HandleError(w, r, service.ErrValidation.WithDetails(map[string]any{
			"dateOfBirth": "must be a date (YYYY-MM-DD or RFC 3339)",
		}))
		return
	}

	result, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		DateOfBirth:    dob,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	h.cookies.Set(w, result.Token, result.ExpiresAt)
	commonhttp.WriteMessage(w, http.StatusOK, "User registered successfully.")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req, "login") {
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Identifier: req.identifier(),
		Password:   req.Password,
	})
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	h.cookies.Set(w, result.Token, result.ExpiresAt)
	commonhttp.WriteMessage(w, http.StatusOK, "Login successful")
}

func (h *Handler) checkAuth(w http.ResponseWriter, r *http.Request) {
	claims, err := h.auth.CheckAuth(r.Context(), jwtverify.TokenFromRequest(r, h.cookies.Name))
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, checkAuthResponse{
		Message: "User is authenticated.",
		User:    claims.Map(),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context(), jwtverify.TokenFromRequest(r, h.cookies.Name))
	h.cookies.Clear(w)
	commonhttp.WriteMessage(w, http.StatusOK, "Logged out successfully.")
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	rawID := r.PathValue("userId")
	if err := commonhttp.ValidateUUID(rawID); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusNotFound, commonhttp.CodeInvalidUserID, "User not found.", nil, commonhttp.TraceID(r.Context()))
		return
	}
	userID := domain.UserID(strings.ToLower(rawID))

	claims, ok := jwtverify.FromContext[domain.Claims](r.Context())
	if !ok {
		h.errHandler.HandleError(w, r, service.ErrUnauthorized)
		return
	}
	if claims.UserID != userID {
		h.log.WithFields(r.Context(), logger.Fields{
			"user_id":   string(claims.UserID),
			"target_id": string(userID),
			"action":    "update_profile_forbidden",
		}).Warn("profile update for another user rejected")
		h.errHandler.HandleError(w, r, service.ErrForbidden)
		return
	}

	var req updateProfileRequest
	if !h.decode(w, r, &req, "update_profile") {
		return
	}

	if _, err := h.auth.UpdateProfile(r.Context(), userID, service.UpdateProfileInput{
		Username:       req.Username,
		Email:          req.Email,
		ProfilePicture: req.ProfilePicture,
	}); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteMessage(w, http.StatusOK, "Profile updated successfully.")
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !h.decode(w, r, &req, "forgot_password") {
		return
	}

	ticket, err := h.auth.ForgotPassword(r.Context(), service.ForgotPasswordInput{Email: req.Email})
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	resp := forgotPasswordResponse{Message: "Reset token generated."}
	if h.exposeResetToken {
		resp.ResetToken = ticket.Token
		resp.ExpiresAt = &ticket.ExpiresAt
	}
	commonhttp.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !h.decode(w, r, &req, "reset_password") {
		return
	}

	err := h.auth.ResetPassword(r.Context(), service.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteMessage(w, http.StatusOK, "Password has been reset.")
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any, action string) bool {
	err := commonhttp.DecodeJSON(r, v)
	if err == nil {
		return true
	}

	h.log.WithFields(r.Context(), logger.Fields{
		"action": action + "_invalid_json",
	}).Warnf("%s failed: invalid json: %v", action, err)

	traceID := commonhttp.TraceID(r.Context())
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		commonhttp.WriteErrorEnvelope(w, http.StatusRequestEntityTooLarge, commonhttp.CodeRequestTooLarge, "request body too large", nil, traceID)
		return false
	}
	commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, traceID)
	return false
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, value)
}
