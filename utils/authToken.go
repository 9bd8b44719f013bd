package utils

import (
	"MediIntake/models"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/o1egl/paseto"
)

const (
	TokenFormatJWT    = "jwt"
	TokenFormatPASETO = "paseto"

	// DefaultTokenTTL is how long an issued token stays valid.
	DefaultTokenTTL = 24 * time.Hour
)

// TokenClaims is the data carried by an access token.
type TokenClaims struct {
	UserID   string          `json:"userID"`
	UserType models.UserType `json:"userType"`
	Expiry   time.Time       `json:"expiry"`
}

// TokenManager issues and verifies signed, time-limited access tokens.
// Verify never fails loudly: a bad signature, a malformed token or an expired
// one all report ok == false.
type TokenManager interface {
	Generate(userID string, userType models.UserType) (string, error)
	Verify(token string) (*TokenClaims, bool)
}

// NewTokenManager returns the manager for the configured token format.
func NewTokenManager(format, secret string, ttl time.Duration) (TokenManager, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	switch format {
	case "", TokenFormatJWT:
		if secret == "" {
			return nil, errors.New("token secret is required")
		}
		return &jwtManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
	case TokenFormatPASETO:
		if len(secret) != 32 {
			return nil, fmt.Errorf("paseto key must be 32 bytes long, got %d", len(secret))
		}
		return &pasetoManager{key: []byte(secret), ttl: ttl, now: time.Now}, nil
	default:
		return nil, fmt.Errorf("unknown token format %q", format)
	}
}

type jwtClaims struct {
	UserID   string          `json:"userID"`
	UserType models.UserType `json:"userType"`
	jwt.RegisteredClaims
}

type jwtManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (m *jwtManager) Generate(userID string, userType models.UserType) (string, error) {
	now := m.now()
	claims := jwtClaims{
		UserID:   userID,
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (m *jwtManager) Verify(token string) (*TokenClaims, bool) {
	var claims jwtClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return nil, false
	}
	return &TokenClaims{
		UserID:   claims.UserID,
		UserType: claims.UserType,
		Expiry:   claims.ExpiresAt.Time,
	}, true
}

type pasetoManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func (m *pasetoManager) Generate(userID string, userType models.UserType) (string, error) {
	claims := TokenClaims{
		UserID:   userID,
		UserType: userType,
		Expiry:   m.now().Add(m.ttl),
	}
	token, err := paseto.NewV2().Encrypt(m.key, claims, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

func (m *pasetoManager) Verify(token string) (*TokenClaims, bool) {
	var claims TokenClaims
	if err := paseto.NewV2().Decrypt(token, m.key, &claims, nil); err != nil {
		return nil, false
	}
	if claims.UserID == "" || !m.now().Before(claims.Expiry) {
		return nil, false
	}
	return &claims, true
}
