package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/solervi/homehaven-be/internal/apperr"
)

// CookieName is the HTTP-only cookie carrying the session token.
const CookieName = "access_token"

// Claims defines the JWT claims structure.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

type contextKey string

// UserClaimsKey is the context key for user claims.
const UserClaimsKey = contextKey("userClaims")

// TokenManager signs and verifies session tokens with an injected secret,
// so no package-level state reads the environment.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager around the given signing secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: 24 * time.Hour}
}

// Generate creates a new session token bound to the given user ID.
func (m *TokenManager) Generate(userID string) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses a token string and returns its claims. Validity is decided
// by the signature alone; no session table is consulted.
func (m *TokenManager) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// RequireAuth protects routes. A missing token is Unauthorized; a token whose
// signature does not verify is Forbidden. On success the claims are attached
// to the request context for downstream handlers.
func (m *TokenManager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var tokenStr string

		// 1. The cookie is the designated transport
		if cookie, err := r.Cookie(CookieName); err == nil {
			tokenStr = cookie.Value
		}

		// 2. Fall back to the Authorization header for non-browser clients
		if tokenStr == "" {
			authHeader := r.Header.Get("Authorization")
			if parts := strings.Split(authHeader, "Bearer "); len(parts) == 2 {
				tokenStr = parts[1]
			}
		}

		if tokenStr == "" {
			apperr.Write(w, apperr.Unauthorized("Unauthorized"))
			return
		}

		claims, err := m.Validate(tokenStr)
		if err != nil {
			apperr.Write(w, apperr.Forbidden("Forbidden"))
			return
		}

		ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID extracts the authenticated user's ID from a request context.
func UserID(ctx context.Context) (string, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	if !ok {
		return "", false
	}
	return claims.UserID, true
}

// SessionCookie builds the HTTP-only cookie carrying a freshly issued token.
func SessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	}
}

// ClearedSessionCookie expires the session cookie on the client.
func ClearedSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	}
}
