package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetCSRFToken(t *testing.T) {
	e := echo.New()

	t.Run("TokenExists", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		expectedToken := "test-csrf-token"
		c.Set("csrf", expectedToken)

		token := GetCSRFToken(c)
		assert.Equal(t, expectedToken, token)
	})

	t.Run("TokenMissing", func(t *testing.T) {
		c := e.NewContext(nil, nil)

		token := GetCSRFToken(c)
		assert.Equal(t, "", token)
	})

	t.Run("TokenInvalidType", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		c.Set("csrf", 123) // Not a string

		token := GetCSRFToken(c)
		assert.Equal(t, "", token)
	})
}

func TestCSRFMiddleware(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error {
		return c.String(http.StatusOK, GetCSRFToken(c))
	}
	handler := CSRF(false)(ok)

	t.Run("SafeMethodIssuesToken", func(t *testing.T) {
		rec := httptest.NewRecorder()
		assert.NoError(t, handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Body.String())
		assert.Contains(t, rec.Header().Get("Set-Cookie"), "_csrf=")
	})

	t.Run("PostWithoutTokenRejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := handler(e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), rec))
		assert.Error(t, err)
	})

	t.Run("PostWithMatchingToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: "_csrf", Value: "matching-token"})
		req.Header.Set(CSRFHeader, "matching-token")
		rec := httptest.NewRecorder()

		assert.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
