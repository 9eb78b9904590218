package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// OAuthStateCookieName holds the state nonce between redirect and callback
	OAuthStateCookieName = "sponsorship_oauth_state"
	// OAuthStateTTL bounds how long a sign-in round trip may take
	OAuthStateTTL = 10 * time.Minute
)

// GenerateNonce creates a random nonce string
func GenerateNonce() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// IssueOAuthState creates a state nonce and stores it in a short-lived cookie
func IssueOAuthState(c echo.Context, secure bool) (string, error) {
	state, err := GenerateNonce()
	if err != nil {
		return "", err
	}
	c.SetCookie(&http.Cookie{
		Name:     OAuthStateCookieName,
		Value:    state,
		Path:     "/auth/oauth",
		MaxAge:   int(OAuthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return state, nil
}

// VerifyOAuthState rejects callbacks whose state parameter does not match
// the cookie set when the flow started. The cookie is single use.
func VerifyOAuthState(secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(OAuthStateCookieName)
			state := c.QueryParam("state")

			c.SetCookie(&http.Cookie{
				Name:     OAuthStateCookieName,
				Value:    "",
				Path:     "/auth/oauth",
				MaxAge:   -1,
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
				return c.Redirect(http.StatusSeeOther, LoginPath+"?error=oauth_state")
			}
			return next(c)
		}
	}
}
