package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by access tokens. Identity is issued elsewhere; this service
// only needs a numeric user id and a display name.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// TokenConfig holds JWT signing configuration.
type TokenConfig struct {
	Secret    []byte
	AccessTTL time.Duration // default: 1 hour
	Issuer    string
}

// Manager handles JWT token generation and validation.
type Manager struct {
	secret    []byte
	accessTTL time.Duration
	issuer    string
}

// NewManager creates a JWT token manager.
func NewManager(cfg TokenConfig) *Manager {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 1 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "quiz-live"
	}
	return &Manager{
		secret:    cfg.Secret,
		accessTTL: cfg.AccessTTL,
		issuer:    cfg.Issuer,
	}
}

// User represents user data for token generation.
type User struct {
	ID       int64
	Username string
}

// GenerateAccessToken signs a short-lived access token. Used by tests and
// local tooling; production tokens come from the identity service.
func (m *Manager) GenerateAccessToken(user User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateAccessToken parses and validates an access token.
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
