package models

// Message is a direct message between a beneficiary and administrators
type Message struct {
	ID        int          `json:"id"`
	Subject   string       `json:"subject"`
	Content   string       `json:"content"`
	Sender    MessageParty `json:"sender"`
	Recipient *Ref         `json:"recipient,omitempty"`
	IsRead    bool         `json:"is_read"`
	SentAt    string       `json:"sent_at"`
}

// MessageParty is the sender block of a message
type MessageParty struct {
	ID       int    `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email"`
}

// DisplayName returns whichever name the endpoint supplied
func (p MessageParty) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

// MessageListResponse is the body of /messages/
type MessageListResponse struct {
	Messages    []Message `json:"messages"`
	UnreadCount int       `json:"unread_count"`
}

// Compose is an outgoing message. Portal users address the admin team by
// RecipientType, administrators address one beneficiary by RecipientID.
type Compose struct {
	Subject       string `json:"subject"`
	Content       string `json:"content"`
	RecipientType string `json:"recipient_type,omitempty"`
	RecipientID   int    `json:"recipient_id,omitempty"`
}

// SendMessageResponse is returned after a message is accepted
type SendMessageResponse struct {
	Message   string `json:"message"`
	MessageID int    `json:"message_id"`
}

// Notification is an admin notification
type Notification struct {
	ID                int     `json:"id"`
	Title             string  `json:"title"`
	Message           string  `json:"message"`
	Type              string  `json:"type"`
	IsRead            bool    `json:"is_read"`
	CreatedAt         string  `json:"created_at"`
	RelativeTime      string  `json:"relative_time,omitempty"`
	RelatedObjectID   *int    `json:"related_object_id"`
	RelatedObjectType *string `json:"related_object_type"`
}

// NotificationListResponse is the body of /admin/notifications/
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}
