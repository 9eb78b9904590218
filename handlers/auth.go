package handlers

import (
	"net/http"
	"net/url"
	"sponsorship_console/middleware"
	"sponsorship_console/models"
	"sponsorship_console/services"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Landing pages per role
const (
	AdminHome  = "/admin/dashboard"
	PortalHome = "/portal/dashboard"
)

func homeFor(user models.User) string {
	if user.HasAdminRights() {
		return AdminHome
	}
	return PortalHome
}

// redirect sends the browser to location, the HTMX way when asked by htmx
func redirect(c echo.Context, location string, data map[string]any) error {
	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", location)
		return c.NoContent(http.StatusOK)
	}
	if middleware.WantsJSON(c) {
		payload := map[string]any{"success": true, "redirect": location}
		for k, v := range data {
			payload[k] = v
		}
		return c.JSON(http.StatusOK, payload)
	}
	return c.Redirect(http.StatusSeeOther, location)
}

// startSession stores a console session for a backend sign-in and issues the cookie
func (h *Handler) startSession(c echo.Context, resp models.LoginResponse) error {
	session, err := h.sessions.CreateSession(resp.User, resp.Token, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}
	middleware.SetSessionCookie(c, session.Token, session.ExpiresAt, h.secure())

	h.logger.Info("user signed in",
		services.SecurityEvent("login"),
		zap.Int("user_id", resp.User.ID),
		zap.String("role", session.Role),
		zap.String("ip", c.RealIP()))

	return redirect(c, homeFor(resp.User), map[string]any{"user": resp.User})
}

// LoginHandler signs in with email and password. With is_admin set, only
// administrators are let in.
func (h *Handler) LoginHandler(c echo.Context) error {
	values, _, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}
	adminOnly, _ := strconv.ParseBool(values["is_admin"])

	resp, err := h.backend.Auth.Login(c.Request().Context(), services.Credentials{
		Email:    values["email"],
		Password: values["password"],
	}, adminOnly)
	if err != nil {
		h.logger.Info("sign-in refused",
			services.SecurityEvent("login_failed"),
			zap.String("ip", c.RealIP()),
			zap.Error(err))
		return h.fail(c, err)
	}

	return h.startSession(c, resp)
}

// SignupHandler registers a beneficiary account and signs it in
func (h *Handler) SignupHandler(c echo.Context) error {
	values, _, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}

	resp, err := h.backend.Auth.Signup(c.Request().Context(), services.Signup{
		FullName:        values["full_name"],
		Email:           values["email"],
		Password:        values["password"],
		ConfirmPassword: values["confirm_password"],
	})
	if err != nil {
		return h.fail(c, err)
	}

	return h.startSession(c, resp)
}

// LogoutHandler ends the console session. The cookie is cleared even when
// the backend could not be told.
func (h *Handler) LogoutHandler(c echo.Context) error {
	sess := h.session(c)
	token := middleware.GetSessionToken(c)

	if err := h.backend.Auth.Logout(c.Request().Context(), sess); err != nil {
		h.logger.Warn("backend logout failed", zap.Error(err))
	}
	if err := h.sessions.DeleteSession(token); err != nil {
		h.logger.Error("failed to delete session", zap.Error(err))
	}
	h.lists.DropSession(token)
	middleware.ClearSessionCookie(c, h.secure())

	return redirect(c, middleware.LoginPath, nil)
}

// ChangePasswordHandler changes the password. Other browsers signed in as
// the same user are signed out.
func (h *Handler) ChangePasswordHandler(c echo.Context) error {
	values, _, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}
	sess := h.session(c)

	err = h.backend.Auth.ChangePassword(c.Request().Context(), sess, services.PasswordChange{
		CurrentPassword: values["current_password"],
		NewPassword:     values["new_password"],
		ConfirmPassword: values["confirm_password"],
	})
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.sessions.DeleteSessionsForUser(sess.Identity().ID, middleware.GetSessionToken(c)); err != nil {
		h.logger.Error("failed to revoke other sessions", zap.Error(err))
	}
	return h.done(c, "Password changed successfully", nil)
}

// MeHandler returns the signed-in identity and the CSRF token for forms
func (h *Handler) MeHandler(c echo.Context) error {
	sess := h.session(c)
	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"user":       sess.Identity(),
		"role":       sess.Role(),
		"csrf_token": middleware.GetCSRFToken(c),
	})
}

// OAuthStartHandler sends the browser to the external provider with a state nonce
func (h *Handler) OAuthStartHandler(c echo.Context) error {
	if !h.cfg.OAuthEnabled() {
		return c.JSON(http.StatusNotFound, map[string]any{
			"success": false,
			"error":   "OAuth sign-in is not configured",
		})
	}

	state, err := middleware.IssueOAuthState(c, h.secure())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start sign-in")
	}

	target, err := url.Parse(h.cfg.OAuthAuthorizeURL)
	if err != nil {
		h.logger.Error("invalid OAUTH_AUTHORIZE_URL", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start sign-in")
	}
	q := target.Query()
	q.Set("state", state)
	q.Set("redirect_uri", h.cfg.AppURL+"/auth/oauth/callback")
	target.RawQuery = q.Encode()

	return c.Redirect(http.StatusFound, target.String())
}

// OAuthCallbackHandler receives the provider's bearer token, asks the
// backend whose it is and starts a session. The state cookie was checked
// by middleware.
func (h *Handler) OAuthCallbackHandler(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath+"?error=oauth")
	}

	user, err := h.backend.Auth.ValidateToken(c.Request().Context(), token)
	if err != nil {
		h.logger.Warn("oauth token rejected",
			services.SecurityEvent("oauth_failed"),
			zap.String("ip", c.RealIP()),
			zap.Error(err))
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath+"?error=oauth")
	}

	return h.startSession(c, models.LoginResponse{Token: token, User: user})
}
