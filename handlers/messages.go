package handlers

import (
	"net/http"
	"sponsorship_console/middleware"
	"sponsorship_console/models"
	"sponsorship_console/services"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// inbox returns the session's portal inbox. It lives in the registry next
// to the lists so the unread count survives between requests.
func (h *Handler) inbox(c echo.Context) *services.Inbox {
	token := middleware.GetSessionToken(c)
	ref := h.lists.SessionRef(token, h.session(c))
	return services.Registered(h.lists, token, "inbox", func() *services.Inbox {
		return h.backend.Messages(ref)
	})
}

// InboxHandler loads the beneficiary's messages
func (h *Handler) InboxHandler(c echo.Context) error {
	inbox := h.inbox(c)
	if err := inbox.Load(c.Request().Context()); err != nil {
		return h.fail(c, err)
	}
	width, _ := strconv.Atoi(c.QueryParam("width"))
	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"messages":     inbox.Summaries(),
		"unread_count": inbox.UnreadCount(),
		"layout":       services.InboxLayout(width),
	})
}

// ViewMessageHandler opens a message and marks it read
func (h *Handler) ViewMessageHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	inbox := h.inbox(c)
	msg, err := inbox.View(c.Request().Context(), id)
	if err != nil {
		// The message still opens when only the read receipt failed
		if msg.ID == 0 || services.IsAuthError(err) {
			return h.fail(c, err)
		}
		h.logger.Warn("mark read failed", zap.Int("message_id", id), zap.Error(err))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"message":      msg,
		"unread_count": inbox.UnreadCount(),
	})
}

// DeleteMessageHandler removes a message
func (h *Handler) DeleteMessageHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	inbox := h.inbox(c)
	if err := inbox.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return h.done(c, "Message deleted", map[string]any{"unread_count": inbox.UnreadCount()}, "messages")
}

// SendMessageHandler sends a message to the admin team
func (h *Handler) SendMessageHandler(c echo.Context) error {
	values, _, err := formValues(c)
	if err != nil {
		return h.fail(c, err)
	}
	inbox := h.inbox(c)
	err = inbox.Send(c.Request().Context(), models.Compose{
		Subject:       values["subject"],
		Content:       values["content"],
		RecipientType: values["recipient_type"],
	})
	if err != nil {
		return h.fail(c, err)
	}
	return h.done(c, "Message sent successfully", map[string]any{"unread_count": inbox.UnreadCount()}, "messages")
}
