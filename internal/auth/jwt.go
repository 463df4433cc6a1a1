package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity payload carried inside every issued token.
//
// Unlike a bare "sub" claim, we embed the full identity the client needs
// (user id, username, email, validation state) so protected handlers never
// have to hit the database just to know who is calling. The signature makes
// the claims tamper-proof; they are NOT encrypted — anyone holding the token
// can read them, so nothing secret goes in here.
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Validated bool   `json:"validated"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies bearer tokens with a shared HMAC secret.
//
// TOKEN LIFETIME:
// ttl == 0 means tokens carry no "exp" claim at all — they stay valid until
// the signing secret changes. That matches the service's historical behavior;
// operators who want bounded sessions set TOKEN_TTL and get a normal expiring
// token. The choice is explicit rather than buried in a default.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. The secret should be at least
// 32 bytes of randomness in production (JWT_SECRET=$(openssl rand -hex 32));
// anything under 16 characters is rejected outright.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl < 0 {
		return nil, errors.New("auth: token TTL must not be negative")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Generate signs a token carrying the given identity claims.
//
// HS256 (HMAC-SHA256) is symmetric: the same secret signs and verifies.
// Fine for a single service holding its own secret; multi-service setups
// would want an asymmetric scheme instead.
func (s *TokenService) Generate(identity Claims) (string, error) {
	now := time.Now()
	identity.IssuedAt = jwt.NewNumericDate(now)
	identity.Issuer = "account-service"
	if s.ttl > 0 {
		identity.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, identity)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string, returning its identity claims.
//
// The jwt library checks the signature, the expiry (when the token has one),
// and — via WithValidMethods — that the algorithm really is HS256. The method
// allowlist matters: without it an attacker could present an "alg":"none"
// token and some parsers would wave it through.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("account-service"),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if c.UserID == "" {
		return nil, fmt.Errorf("auth: token carries no user id")
	}

	return c, nil
}
