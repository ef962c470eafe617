package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// JWT SESSION TOKENS
// ══════════════════════════════════════════════════════════════════════════════

// DefaultTokenTTL is how long an issued session token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// tokenIssuerName identifies this service in the iss claim.
const tokenIssuerName = "erio-dashboard"

// Claims are the JWT claims carried by an admin session token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates HS256-signed session tokens. It implements
// command.TokenIssuer.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager creates a manager with the given signing secret. A zero ttl
// falls back to DefaultTokenTTL.
func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("auth: JWT secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue mints a signed token for an authenticated admin.
func (m *JWTManager) Issue(adminID, email, role string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			Issuer:    tokenIssuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, shared.WrapError("auth", "Issue", shared.ErrExternalService, "failed to sign token", err)
	}

	return signed, expiresAt, nil
}

// Validate parses and verifies a session token, returning its claims.
func (m *JWTManager) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	},
		jwt.WithIssuer(tokenIssuerName),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, shared.ErrSessionExpired
		}
		return nil, shared.ErrInvalidToken
	}
	if !token.Valid {
		return nil, shared.ErrInvalidToken
	}
	return claims, nil
}
