package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"labelhub/internal/auth"
	"labelhub/internal/entity"
	"labelhub/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ClientInfo describes the client opening a session.
type ClientInfo struct {
	UserAgent string
	IP        string
}

// AuthService authenticates users and manages server-side sessions.
type AuthService struct {
	repo     model.Repository
	sessions *auth.Manager
	now      func() time.Time
}

// NewAuthService creates an AuthService.
func NewAuthService(repo model.Repository, sessions *auth.Manager) *AuthService {
	return &AuthService{repo: repo, sessions: sessions, now: time.Now}
}

// Authenticate checks identifier (username or e-mail) and password. A wrong
// password and an unknown account are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (*entity.User, error) {
	user, err := s.repo.GetUserByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// LoginResult is returned by Login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// Login authenticates the user, opens a session and records the login time.
func (s *AuthService) Login(ctx context.Context, identifier, password string, client ClientInfo) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sessionID := auth.NewSessionToken()
	token, expiresAt, err := s.sessions.IssueToken(user.ID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	session := &entity.Session{
		UserID:     user.ID,
		TokenHash:  auth.HashToken(sessionID),
		ExpiresAt:  expiresAt,
		LastSeenAt: now,
		UserAgent:  truncate(client.UserAgent, 255),
		ClientIP:   truncate(client.IP, 64),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, translate(err)
	}
	if err := s.repo.UpdateUser(ctx, user.ID, entity.UserUpdates{LastLoginAt: &now}); err != nil {
		return nil, translate(err)
	}
	user.LastLoginAt = &now

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "ip": client.IP}).Info("user logged in")
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Resolve turns a session token into the principal it belongs to.
func (s *AuthService) Resolve(ctx context.Context, token string) (*auth.Principal, error) {
	token = strings.TrimSpace(token)
	claims, err := s.sessions.ParseToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.dropSession(ctx, token)
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	hash := auth.HashToken(claims.SessionID)
	session, err := s.repo.GetSessionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}

	now := s.now().UTC()
	if session.UserID != claims.UserID || !session.ExpiresAt.After(now) {
		if err := s.repo.DeleteSessionByHash(ctx, hash); err != nil {
			logrus.WithError(err).Warn("failed to delete expired session")
		}
		return nil, ErrSessionExpired
	}

	user, err := s.repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	if err := s.repo.TouchSession(ctx, session.ID, now); err != nil {
		logrus.WithError(err).Warn("failed to touch session")
	}

	principal := auth.NewPrincipal(user)
	principal.SessionID = session.ID
	return principal, nil
}

// Logout ends the session behind token. Unknown or invalid tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.sessions.ParseExpired(strings.TrimSpace(token))
	if err != nil {
		return nil
	}
	return s.repo.DeleteSessionByHash(ctx, auth.HashToken(claims.SessionID))
}

func (s *AuthService) dropSession(ctx context.Context, token string) {
	claims, err := s.sessions.ParseExpired(token)
	if err != nil {
		return
	}
	if err := s.repo.DeleteSessionByHash(ctx, auth.HashToken(claims.SessionID)); err != nil {
		logrus.WithError(err).Warn("failed to delete expired session")
	}
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, s.now().UTC())
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
