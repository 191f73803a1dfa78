package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestValidationFailed(t *testing.T) {
	c, w := newContext()

	ValidationFailed(c, "Invalid user data", map[string]string{"username": "too short"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, c.IsAborted())

	body := decode(t, w)
	assert.Equal(t, ErrCodeValidationFailed, body["code"])
	assert.Equal(t, "Invalid user data", body["message"])
	assert.Equal(t, map[string]interface{}{"username": "too short"}, body["errors"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestBusinessRuleViolation(t *testing.T) {
	c, w := newContext()

	BusinessRuleViolation(c, "Task is already in this quadrant", "quadrant")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, ErrCodeBusinessRuleViolation, body["code"])
	assert.Equal(t, map[string]interface{}{"field": "quadrant"}, body["details"])
	assert.NotContains(t, body, "errors")
}

func TestDefaultMessages(t *testing.T) {
	tests := []struct {
		respond func(c *gin.Context, message string)
		status  int
		code    string
		message string
	}{
		{Unauthorized, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required"},
		{InvalidToken, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid or expired token"},
		{Forbidden, http.StatusForbidden, ErrCodeForbidden, "Access denied"},
		{NotFound, http.StatusNotFound, ErrCodeNotFound, "Resource not found"},
		{Conflict, http.StatusConflict, ErrCodeConflict, "Resource conflict"},
		{InternalError, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"},
		{ServiceUnavailable, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service temporarily unavailable"},
	}

	for _, tt := range tests {
		c, w := newContext()
		tt.respond(c, "")

		assert.Equal(t, tt.status, w.Code)
		body := decode(t, w)
		assert.Equal(t, tt.code, body["code"])
		assert.Equal(t, tt.message, body["message"])
	}
}
