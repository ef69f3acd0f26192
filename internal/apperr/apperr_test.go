package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMapsAppErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, NotFound("Listing not found!"))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(404), body["statusCode"])
	assert.Equal(t, "Listing not found!", body["message"])
}

func TestWriteHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, errors.New("sql: database is locked"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "sql")
	assert.Contains(t, rec.Body.String(), "Internal Server Error")
}

func TestWriteUnwrapsWrappedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, fmt.Errorf("update listing: %w", Forbidden("You can only update your own listings!")))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIs(t *testing.T) {
	assert.True(t, Is(Conflict("dup"), 409))
	assert.False(t, Is(Conflict("dup"), 404))
	assert.False(t, Is(errors.New("plain"), 500))
}
