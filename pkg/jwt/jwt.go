package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"shift-report/config"
)

var (
	ErrTokenExpired = errors.New("session token expired")
	ErrTokenInvalid = errors.New("session token invalid")
)

const (
	issuer       = "shift-report"
	adminSubject = "admin"
)

// Claims admin session claims. The JWT ID is the session ID.
type Claims struct {
	jwtv5.RegisteredClaims
}

// SessionID returns the session identifier carried by the token.
func (c *Claims) SessionID() string { return c.ID }

// Manager issues and verifies admin session tokens.
type Manager struct {
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

// NewManager creates a Manager from the admin config.
func NewManager(cfg *config.AdminConfig) *Manager {
	return &Manager{
		secret:     []byte(cfg.JWTSecret),
		sessionTTL: cfg.SessionTTL,
		now:        time.Now,
	}
}

// TTL session lifetime
func (m *Manager) TTL() time.Duration { return m.sessionTTL }

// GenerateSessionToken starts a new admin session.
// Returns the signed token and its claims.
func (m *Manager) GenerateSessionToken() (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   adminSubject,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.sessionTTL)),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ParseToken verifies a session token.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(issuer), jwtv5.WithSubject(adminSubject))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
