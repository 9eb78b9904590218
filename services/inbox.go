package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sponsorship_console/models"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// ErrMessageNotFound is returned for a message id the inbox has not loaded
var ErrMessageNotFound = errors.New("message not found")

// Inbox layouts
const (
	LayoutSingle      = "single"
	LayoutThreeColumn = "three-column"
)

// InboxBreakpoint is the widest viewport that still gets the single-pane layout
const InboxBreakpoint = 1024

// InboxLayout picks the inbox layout for a viewport width in pixels
func InboxLayout(width int) string {
	if width <= InboxBreakpoint {
		return LayoutSingle
	}
	return LayoutThreeColumn
}

// MessageAPI is the backend side of an inbox
type MessageAPI interface {
	List(ctx context.Context) (models.MessageListResponse, error)
	MarkRead(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
	Send(ctx context.Context, msg models.Compose) error
}

// PortalMessages is the beneficiary's /messages/ endpoints
type PortalMessages struct {
	api     *APIClient
	session func() *SessionContext
}

// NewPortalMessages talks as whatever session returns at call time
func NewPortalMessages(api *APIClient, session func() *SessionContext) *PortalMessages {
	return &PortalMessages{api: api, session: session}
}

func (p *PortalMessages) List(ctx context.Context) (models.MessageListResponse, error) {
	var resp models.MessageListResponse
	err := p.api.GetJSON(ctx, p.session(), "/messages/", url.Values{}, &resp)
	return resp, err
}

func (p *PortalMessages) MarkRead(ctx context.Context, id int) error {
	return p.api.PostJSON(ctx, p.session(), fmt.Sprintf("/messages/%d/read/", id), nil, nil)
}

func (p *PortalMessages) Delete(ctx context.Context, id int) error {
	return p.api.Delete(ctx, p.session(), fmt.Sprintf("/messages/%d/delete/", id), nil)
}

func (p *PortalMessages) Send(ctx context.Context, msg models.Compose) error {
	return p.api.PostJSON(ctx, p.session(), "/messages/send/", msg, nil)
}

// MessageSummary is one inbox row
type MessageSummary struct {
	models.Message
	SenderName string `json:"sender_name"`
	Preview    string `json:"preview"`
	TimeLabel  string `json:"time_label"`
}

// Inbox is the mini-inbox state: the loaded messages and the unread count.
// Messages only move unread -> read -> removed.
type Inbox struct {
	api     MessageAPI
	strict  *bluemonday.Policy
	ugc     *bluemonday.Policy
	now     func() time.Time
	mu      sync.RWMutex
	list    []models.Message
	unread  int
	loaded  bool
	sending bool
}

func NewInbox(api MessageAPI) *Inbox {
	return &Inbox{
		api:    api,
		strict: bluemonday.StrictPolicy(),
		ugc:    bluemonday.UGCPolicy(),
		now:    time.Now,
	}
}

// Load replaces the inbox with the backend's current messages
func (i *Inbox) Load(ctx context.Context) error {
	resp, err := i.api.List(ctx)
	if err != nil {
		return err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.list = resp.Messages
	i.unread = resp.UnreadCount
	i.loaded = true
	return nil
}

// Messages returns a copy of the loaded messages
func (i *Inbox) Messages() []models.Message {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]models.Message, len(i.list))
	copy(out, i.list)
	return out
}

// Summaries renders the loaded messages as inbox rows
func (i *Inbox) Summaries() []MessageSummary {
	now := i.now()
	msgs := i.Messages()
	rows := make([]MessageSummary, len(msgs))
	for n, m := range msgs {
		rows[n] = MessageSummary{
			Message:    m,
			SenderName: m.Sender.DisplayName(),
			Preview:    Preview(strings.TrimSpace(i.strict.Sanitize(m.Content))),
			TimeLabel:  MessageTimeLabel(m.SentAt, now),
		}
	}
	return rows
}

// UnreadCount is the number of unread messages
func (i *Inbox) UnreadCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.unread
}

// View opens a message, marking it read on the backend if it was unread
func (i *Inbox) View(ctx context.Context, id int) (models.Message, error) {
	if err := i.ensureLoaded(ctx); err != nil {
		return models.Message{}, err
	}
	msg, ok := i.find(id)
	if !ok {
		return models.Message{}, ErrMessageNotFound
	}
	if msg.IsRead {
		return msg, nil
	}
	if err := i.MarkRead(ctx, id); err != nil {
		return msg, err
	}
	msg.IsRead = true
	return msg, nil
}

// MarkRead marks one unread message as read. Read messages are left alone.
func (i *Inbox) MarkRead(ctx context.Context, id int) error {
	msg, ok := i.find(id)
	if !ok {
		return ErrMessageNotFound
	}
	if msg.IsRead {
		return nil
	}
	if err := i.api.MarkRead(ctx, id); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	for n := range i.list {
		if i.list[n].ID == id && !i.list[n].IsRead {
			i.list[n].IsRead = true
			if i.unread > 0 {
				i.unread--
			}
		}
	}
	return nil
}

// Delete removes a message, read or not
func (i *Inbox) Delete(ctx context.Context, id int) error {
	if err := i.ensureLoaded(ctx); err != nil {
		return err
	}
	if _, ok := i.find(id); !ok {
		return ErrMessageNotFound
	}
	if err := i.api.Delete(ctx, id); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	kept := i.list[:0]
	for _, m := range i.list {
		if m.ID == id {
			if !m.IsRead && i.unread > 0 {
				i.unread--
			}
			continue
		}
		kept = append(kept, m)
	}
	i.list = kept
	return nil
}

// Send validates and sanitizes msg, waits for the backend to accept it and
// then reloads the inbox. Nothing is inserted before the backend answers.
func (i *Inbox) Send(ctx context.Context, msg models.Compose) error {
	msg.Subject = strings.TrimSpace(i.strict.Sanitize(msg.Subject))
	msg.Content = strings.TrimSpace(i.ugc.Sanitize(msg.Content))
	if msg.Subject == "" || msg.Content == "" {
		return &ValidationError{Problems: []string{"Subject and message are required"}}
	}
	if msg.RecipientType == "" && msg.RecipientID == 0 {
		msg.RecipientType = models.RoleAdmin
	}

	i.mu.Lock()
	if i.sending {
		i.mu.Unlock()
		return ErrSubmissionInProgress
	}
	i.sending = true
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.sending = false
		i.mu.Unlock()
	}()

	if err := i.api.Send(ctx, msg); err != nil {
		return err
	}
	return i.Load(ctx)
}

func (i *Inbox) ensureLoaded(ctx context.Context) error {
	i.mu.RLock()
	loaded := i.loaded
	i.mu.RUnlock()
	if loaded {
		return nil
	}
	return i.Load(ctx)
}

func (i *Inbox) find(id int) (models.Message, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	for _, m := range i.list {
		if m.ID == id {
			return m, true
		}
	}
	return models.Message{}, false
}
