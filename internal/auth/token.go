// Package auth turns bearer tokens into caller identities.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wordplay-service/internal/domain"
)

var (
	ErrInvalidToken     = fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	ErrExpiredToken     = fmt.Errorf("%w: token has expired", domain.ErrUnauthorized)
	ErrInvalidSignature = fmt.Errorf("%w: invalid token signature", domain.ErrUnauthorized)
)

// Claims carries the identity fields of an access token.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TokenService issues and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for userID. Used by the CLI to mint development tokens.
func (s *TokenService) Issue(userID string, role domain.Role) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: string(role),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates the token and returns the identity it carries.
func (s *TokenService) Verify(tokenString string) (domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return domain.Identity{}, ErrInvalidSignature
		}
		return domain.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return domain.Identity{}, ErrInvalidToken
	}
	role := domain.Role(claims.Role)
	if role == "" {
		role = domain.RoleUser
	}
	return domain.Identity{UserID: claims.Subject, Role: role}, nil
}
