package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"labelhub/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are carried by the signed session cookie. SessionID is the
// random session token; only its hash is stored server side.
type SessionClaims struct {
	UserID    uint   `json:"uid"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens.
type Manager struct {
	secret []byte
	issuer string
	expiry time.Duration
}

// NewManager creates a new session token manager.
func NewManager(secret, issuer string, expiry time.Duration) (*Manager, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, errors.New("session secret must not be empty")
	}
	if expiry <= 0 {
		expiry = time.Hour * 12
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = "labelhub"
	}
	return &Manager{
		secret: []byte(trimmed),
		issuer: issuer,
		expiry: expiry,
	}, nil
}

// Expiry returns the lifetime of issued sessions.
func (m *Manager) Expiry() time.Duration {
	return m.expiry
}

// NewSessionToken returns a fresh random session identifier (64 hex chars).
func NewSessionToken() string {
	return utils.GenerateUUID() + utils.GenerateUUID()
}

// HashToken returns the hex encoded SHA-256 of a session identifier.
func HashToken(sessionID string) string {
	sum := sha256.Sum256([]byte(sessionID))
	return hex.EncodeToString(sum[:])
}

// IssueToken signs a token binding userID to the session identifier.
func (m *Manager) IssueToken(userID uint, sessionID string) (string, time.Time, error) {
	if m == nil {
		return "", time.Time{}, errors.New("session manager is nil")
	}
	if userID == 0 || strings.TrimSpace(sessionID) == "" {
		return "", time.Time{}, errors.New("invalid session for token generation")
	}
	now := time.Now().UTC()
	expiry := now.Add(m.expiry)

	claims := SessionClaims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// ParseToken validates signature, issuer and expiry and returns the claims.
func (m *Manager) ParseToken(tokenString string) (*SessionClaims, error) {
	if m == nil {
		return nil, errors.New("session manager is nil")
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
	)

	token, err := parser.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" || claims.UserID == 0 {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ParseExpired verifies the signature but not the time based claims. It is
// used to locate the session behind an expired token so it can be removed.
func (m *Manager) ParseExpired(tokenString string) (*SessionClaims, error) {
	if m == nil {
		return nil, errors.New("session manager is nil")
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	claims := &SessionClaims{}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}); err != nil {
		return nil, err
	}
	if claims.SessionID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
