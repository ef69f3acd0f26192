package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewTokenManager("test-secret")

	token, err := m.Generate("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	token, err := NewTokenManager("secret-a").Generate("user-123")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b").Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret").Validate("not.a.token")
	assert.Error(t, err)
}

func protectedEcho(m *TokenManager) http.Handler {
	return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(id))
	}))
}

func TestRequireAuthMissingTokenIsUnauthorized(t *testing.T) {
	m := NewTokenManager("secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	protectedEcho(m).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestRequireAuthBadSignatureIsForbidden(t *testing.T) {
	m := NewTokenManager("secret")
	forged, err := NewTokenManager("other-secret").Generate("user-123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: forged})
	rec := httptest.NewRecorder()
	protectedEcho(m).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAuthValidCookie(t *testing.T) {
	m := NewTokenManager("secret")
	token, err := m.Generate("user-123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()
	protectedEcho(m).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-123", rec.Body.String())
}

func TestRequireAuthBearerFallback(t *testing.T) {
	m := NewTokenManager("secret")
	token, err := m.Generate("user-456")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protectedEcho(m).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-456", rec.Body.String())
}

func TestSessionCookieFlags(t *testing.T) {
	c := SessionCookie("tok", true)
	assert.Equal(t, CookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, "/", c.Path)

	cleared := ClearedSessionCookie(false)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}
