package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sponsorship_console/models"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// SessionTokenLength is the length of the session token in bytes (64 chars hex)
	SessionTokenLength = 32
	// DefaultSessionDuration matches the backend's token lifetime
	DefaultSessionDuration = 24 * time.Hour
)

// SessionStore persists console sessions. The browser only ever sees the
// random cookie token; the backend bearer token stays sealed in the table.
type SessionStore struct {
	db       *gorm.DB
	sealer   *TokenSealer
	logger   *zap.Logger
	Duration time.Duration
}

// NewSessionStore creates a store on db
func NewSessionStore(db *gorm.DB, sealer *TokenSealer, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{
		db:       db,
		sealer:   sealer,
		logger:   logger,
		Duration: DefaultSessionDuration,
	}
}

// GenerateSessionToken generates a cryptographically secure random token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, SessionTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// CreateSession stores a new session for user holding bearer
func (s *SessionStore) CreateSession(user models.User, bearer, ipAddress, userAgent string) (*models.Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	sealed, err := s.sealer.Seal(bearer)
	if err != nil {
		return nil, fmt.Errorf("failed to seal backend token: %w", err)
	}

	session := &models.Session{
		Token:          token,
		EncryptedToken: sealed,
		ExpiresAt:      time.Now().Add(s.Duration),
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		UserID:         user.ID,
		Email:          user.Email,
		Username:       user.Username,
		FullName:       user.FullName,
		Role:           user.Role,
		IsAdmin:        user.HasAdminRights(),
	}
	if session.Role == "" {
		session.Role = models.RoleBeneficiary
	}

	if err := s.db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// ValidateSession returns the stored session for token. Expired sessions are
// deleted on sight.
func (s *SessionStore) ValidateSession(token string) (*models.Session, error) {
	var session models.Session

	err := s.db.Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	if session.IsExpired() {
		s.db.Delete(&session)
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// BearerToken unseals the backend token of session
func (s *SessionStore) BearerToken(session *models.Session) (string, error) {
	return s.sealer.Open(session.EncryptedToken)
}

// UpdateSessionToken replaces the sealed backend token after rotation
func (s *SessionStore) UpdateSessionToken(token, bearer string) error {
	sealed, err := s.sealer.Seal(bearer)
	if err != nil {
		return fmt.Errorf("failed to seal backend token: %w", err)
	}
	result := s.db.Model(&models.Session{}).
		Where("token = ?", token).
		Update("encrypted_token", sealed)
	if result.Error != nil {
		return fmt.Errorf("failed to update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteSession deletes a session (logout)
func (s *SessionStore) DeleteSession(token string) error {
	result := s.db.Where("token = ?", token).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	return nil
}

// DeleteSessionsForUser deletes every session of a backend user.
// Used after a password change so other browsers must sign in again.
func (s *SessionStore) DeleteSessionsForUser(userID int, exceptToken string) error {
	query := s.db.Where("user_id = ?", userID)
	if exceptToken != "" {
		query = query.Where("token <> ?", exceptToken)
	}
	result := query.Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user sessions: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		s.logger.Info("deleted user sessions",
			SecurityEvent("sessions_revoked"),
			zap.Int("user_id", userID),
			zap.Int64("count", result.RowsAffected))
	}
	return nil
}

// CleanupExpiredSessions removes all expired sessions from the database
func (s *SessionStore) CleanupExpiredSessions() (int64, error) {
	result := s.db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Load builds the SessionContext for a cookie token. Invalidating the
// context deletes the stored row; refreshing it reseals the new token.
func (s *SessionStore) Load(token string) (*SessionContext, *models.Session, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, nil, err
	}

	bearer, err := s.BearerToken(session)
	if err != nil {
		// A secret rotation makes old rows unreadable; treat as signed out
		_ = s.DeleteSession(token)
		return nil, nil, ErrSessionExpired
	}

	sess := NewSessionContext()
	sess.SignIn(session.Identity(), bearer)
	s.Bind(sess, token)

	return sess, session, nil
}

// Bind ties a SessionContext to the stored session identified by token
func (s *SessionStore) Bind(sess *SessionContext, token string) {
	userID := sess.Identity().ID
	sess.OnInvalidate(func(reason error) {
		if err := s.DeleteSession(token); err != nil {
			s.logger.Error("failed to delete invalidated session", zap.Error(err))
			return
		}
		s.logger.Info("session ended",
			SecurityEvent("session_invalidated"),
			zap.Int("user_id", userID),
			zap.NamedError("reason", reason))
	})
	sess.OnRefresh(func(bearer string) error {
		return s.UpdateSessionToken(token, bearer)
	})
}
