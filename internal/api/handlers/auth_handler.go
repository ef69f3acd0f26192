package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/solervi/homehaven-be/internal/apperr"
	"github.com/solervi/homehaven-be/internal/auth"
	"github.com/solervi/homehaven-be/internal/observability/metrics"
	"github.com/solervi/homehaven-be/internal/services"
)

// AuthHandler handles HTTP requests for signup and sign-in.
type AuthHandler struct {
	service      services.UserServiceProvider
	tokens       *auth.TokenManager
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider, tokens *auth.TokenManager, cookieSecure bool) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens, cookieSecure: cookieSecure}
}

// SignUpPayload defines the structure for registration requests.
type SignUpPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInPayload defines the structure for login requests.
type SignInPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GooglePayload carries the identity claims from the federated provider.
type GooglePayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
}

// SignUp handles new user registration.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var payload SignUpPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apperr.Write(w, apperr.BadRequest("Invalid request body"))
		return
	}

	user, err := h.service.SignUp(payload.Username, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		apperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// SignIn handles user authentication and sets the session cookie.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var payload SignInPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apperr.Write(w, apperr.BadRequest("Invalid request body"))
		return
	}

	user, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		metrics.ObserveSignIn("local", "failure")
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		apperr.Write(w, err)
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate session token")
		apperr.Write(w, err)
		return
	}

	metrics.ObserveSignIn("local", "success")
	http.SetCookie(w, auth.SessionCookie(token, h.cookieSecure))
	writeJSON(w, http.StatusOK, user)
}

// Google handles federated sign-in and first-time registration.
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var payload GooglePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apperr.Write(w, apperr.BadRequest("Invalid request body"))
		return
	}

	user, err := h.service.FederatedSignIn(payload.Name, payload.Email, payload.Photo)
	if err != nil {
		metrics.ObserveSignIn("google", "failure")
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed federated sign-in")
		apperr.Write(w, err)
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate session token")
		apperr.Write(w, err)
		return
	}

	metrics.ObserveSignIn("google", "success")
	http.SetCookie(w, auth.SessionCookie(token, h.cookieSecure))
	writeJSON(w, http.StatusOK, user)
}

// SignOut clears the session cookie. It succeeds whether or not a valid
// session existed.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearedSessionCookie(h.cookieSecure))
	writeJSON(w, http.StatusOK, map[string]string{"message": "User has been logged out!"})
}
