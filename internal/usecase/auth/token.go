package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// userClaimKeys are the claim names an identity may be carried under.
// Issue writes "sub"; the others are accepted from older tokens.
var userClaimKeys = []string{"sub", "userId", "user_id"}

// TokenService verifies bearer credentials issued by the identity service.
// Issue exists for operator tooling and tests.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * 7 * time.Hour
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs an HS256 token for userID.
func (s *TokenService) Issue(userID uuid.UUID) (string, time.Time, error) {
	if userID == uuid.Nil {
		return "", time.Time{}, domain.ErrInvalidUserID
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"exp": expiresAt.Unix(),
		"iat": now.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyToken checks signature and expiry and returns the caller identity.
func (s *TokenService) VerifyToken(_ context.Context, tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, domain.ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return uuid.Nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, domain.ErrInvalidToken
	}

	for _, key := range userClaimKeys {
		raw, ok := claims[key].(string)
		if !ok || raw == "" {
			continue
		}
		id, err := domain.ParseID(raw)
		if err != nil {
			return uuid.Nil, errors.Join(domain.ErrInvalidToken, err)
		}
		return id, nil
	}
	return uuid.Nil, domain.ErrInvalidToken
}
