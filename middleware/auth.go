package middleware

import (
	"net/http"
	"sponsorship_console/models"
	"sponsorship_console/services"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "sponsorship_session"
	// ContextKeySession is the context key for the *services.SessionContext
	ContextKeySession = "session"
	// ContextKeySessionToken is the context key for the cookie token
	ContextKeySessionToken = "session_token"
	// LoginPath is where unauthenticated visitors are sent
	LoginPath = "/auth"
)

// SessionLoader restores the SessionContext of a cookie token
type SessionLoader interface {
	Load(token string) (*services.SessionContext, *models.Session, error)
}

// RequireSession requires a signed-in console session. The SessionContext is
// stored in the echo context. When the handler ends the session (backend
// 401, logout) without writing a response, the cookie is cleared here.
func RequireSession(store SessionLoader, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return DenyAccess(c, services.ErrNotAuthenticated)
			}

			sess, _, err := store.Load(cookie.Value)
			if err != nil {
				ClearSessionCookie(c, secure)
				return DenyAccess(c, err)
			}

			c.Set(ContextKeySession, sess)
			c.Set(ContextKeySessionToken, cookie.Value)

			err = next(c)
			if !sess.Authenticated() && !c.Response().Committed {
				ClearSessionCookie(c, secure)
			}
			return err
		}
	}
}

// RequireRole requires the session's role to be one of roles. Admin rights
// granted by the backend's is_admin flag count as the admin role.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := GetSession(c)
			if sess == nil {
				return DenyAccess(c, services.ErrNotAuthenticated)
			}

			for _, role := range roles {
				if sess.Role() == role || (role == models.RoleAdmin && sess.IsAdmin()) {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, map[string]any{
				"success": false,
				"error":   "Insufficient permissions",
			})
		}
	}
}

// DenyAccess answers a request that needs a session it does not have.
// HTMX requests get HX-Redirect, JSON clients a 401 payload, browsers a redirect.
func DenyAccess(c echo.Context, reason error) error {
	if IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", LoginPath)
		return c.NoContent(http.StatusUnauthorized)
	}
	if WantsJSON(c) {
		msg := services.ErrNotAuthenticated.Error()
		if reason != nil && services.IsAuthError(reason) {
			msg = reason.Error()
		}
		return c.JSON(http.StatusUnauthorized, map[string]any{
			"success": false,
			"error":   msg,
		})
	}
	return c.Redirect(http.StatusSeeOther, LoginPath)
}

// IsHTMX reports whether the request was issued by htmx
func IsHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// WantsJSON reports whether the client asked for a JSON answer
func WantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) ||
		c.Request().Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// GetSession retrieves the current session context
func GetSession(c echo.Context) *services.SessionContext {
	sess, ok := c.Get(ContextKeySession).(*services.SessionContext)
	if !ok {
		return nil
	}
	return sess
}

// GetSessionToken returns the cookie token of the current session
func GetSessionToken(c echo.Context) string {
	token, _ := c.Get(ContextKeySessionToken).(string)
	return token
}

// SetSessionCookie issues the session cookie
func SetSessionCookie(c echo.Context, token string, expiresAt time.Time, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie clears the session cookie
func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
