package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is the console's only persistent record. It binds a browser
// cookie to the backend bearer token and the identity returned at sign-in.
type Session struct {
	ID        string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Token          string    `gorm:"uniqueIndex;not null;type:varchar(128)" json:"-"`
	EncryptedToken string    `gorm:"type:text;not null" json:"-"` // backend bearer token, AES-GCM sealed
	ExpiresAt      time.Time `gorm:"not null;index" json:"expires_at"`
	IPAddress      string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent      string    `gorm:"type:text" json:"user_agent"`

	// Identity snapshot taken from the backend at sign-in
	UserID   int    `gorm:"not null;index" json:"user_id"`
	Email    string `gorm:"not null" json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `gorm:"not null;default:beneficiary" json:"role"`
	IsAdmin  bool   `gorm:"not null;default:false" json:"is_admin"`
}

// BeforeCreate hook to generate UUID
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Session model
func (Session) TableName() string {
	return "console_sessions"
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Identity rebuilds the backend user from the stored snapshot
func (s *Session) Identity() User {
	return User{
		ID:       s.UserID,
		Email:    s.Email,
		Username: s.Username,
		FullName: s.FullName,
		Role:     s.Role,
		IsAdmin:  s.IsAdmin,
	}
}
