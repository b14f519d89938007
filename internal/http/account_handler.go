package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/eventboard/internal/application"
)

type accountService interface {
	Signup(ctx context.Context, payload application.SignupPayload) (application.AuthResult, error)
	Login(ctx context.Context, payload application.LoginPayload) (application.AuthResult, error)
}

// AccountHandler serves signup and login.
type AccountHandler struct {
	service   accountService
	responder responder
	logger    *slog.Logger
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(service accountService, logger *slog.Logger) *AccountHandler {
	base := defaultLogger(logger)
	return &AccountHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AccountHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AccountHandler", operation, attrs...)
}

// Signup handles POST /users/signup.
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Signup", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode signup request", "error", err)
		h.responder.writeDecodeError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Signup")
	result, err := h.service.Signup(r.Context(), req.toPayload())
	if err != nil {
		logger.ErrorContext(r.Context(), "signup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, nil)
		return
	}

	logger.With("account_id", result.Account.ID).InfoContext(r.Context(), "account registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toAuthResponse("User registered successfully", result))
}

// Login handles POST /users/login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeDecodeError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Login")
	result, err := h.service.Login(r.Context(), req.toPayload())
	if err != nil {
		logger.ErrorContext(r.Context(), "login failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, nil)
		return
	}

	logger.With("account_id", result.Account.ID).InfoContext(r.Context(), "login succeeded")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toAuthResponse("Login successful", result))
}

type signupRequest struct {
	Email    application.Field `json:"email"`
	Password application.Field `json:"password"`
	Name     application.Field `json:"name"`
}

func (r signupRequest) toPayload() application.SignupPayload {
	return application.SignupPayload{Email: r.Email, Password: r.Password, Name: r.Name}
}

type loginRequest struct {
	Email    application.Field `json:"email"`
	Password application.Field `json:"password"`
}

func (r loginRequest) toPayload() application.LoginPayload {
	return application.LoginPayload{Email: r.Email, Password: r.Password}
}

type authResponse struct {
	envelope
	User      accountDTO `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt string     `json:"expiresAt"`
}

type accountDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

func toAuthResponse(message string, result application.AuthResult) authResponse {
	return authResponse{
		envelope: envelope{Success: true, Message: message},
		User: accountDTO{
			ID:        result.Account.ID,
			Email:     result.Account.Email,
			Name:      result.Account.Name,
			CreatedAt: result.Account.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
		Token:     result.Token.Value,
		ExpiresAt: result.Token.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
