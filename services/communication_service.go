package services

import (
	"context"
	"fmt"
	"net/url"
	"sponsorship_console/models"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// CommunicationService covers the administrator's messages and notifications
type CommunicationService struct {
	api    *APIClient
	policy *bluemonday.Policy
}

func NewCommunicationService(api *APIClient) *CommunicationService {
	return &CommunicationService{api: api, policy: bluemonday.UGCPolicy()}
}

// Send delivers a message to one beneficiary
func (s *CommunicationService) Send(ctx context.Context, sess *SessionContext, msg models.Compose) (models.SendMessageResponse, error) {
	var resp models.SendMessageResponse

	msg.Subject = strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(msg.Subject))
	msg.Content = strings.TrimSpace(s.policy.Sanitize(msg.Content))
	msg.RecipientType = ""

	valErr := &ValidationError{}
	if msg.RecipientID <= 0 {
		valErr.Missing = append(valErr.Missing, "Recipient")
	}
	if msg.Subject == "" {
		valErr.Missing = append(valErr.Missing, "Subject")
	}
	if msg.Content == "" {
		valErr.Missing = append(valErr.Missing, "Message")
	}
	if valErr.HasProblems() {
		return resp, valErr
	}

	err := s.api.PostJSON(ctx, sess, "/admin/messages/send/", msg, &resp)
	return resp, err
}

// Notifications lists the latest notifications. markAllRead marks them
// read on the backend after they are listed.
func (s *CommunicationService) Notifications(ctx context.Context, sess *SessionContext, markAllRead bool) (models.NotificationListResponse, error) {
	var resp models.NotificationListResponse
	var query url.Values
	if markAllRead {
		query = url.Values{"mark_all_read": {"true"}}
	}
	err := s.api.GetJSON(ctx, sess, "/admin/notifications/", query, &resp)
	return resp, err
}

// MarkNotificationRead marks one notification read
func (s *CommunicationService) MarkNotificationRead(ctx context.Context, sess *SessionContext, id int) error {
	return s.api.PostJSON(ctx, sess, fmt.Sprintf("/admin/notifications/%d/read/", id), map[string]any{}, nil)
}
