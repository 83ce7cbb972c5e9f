package auth

import (
	"context"
	"testing"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenService_RoundTrip(t *testing.T) {
	s := NewTokenService(testSecret, time.Hour)
	id := uuid.New()

	token, exp, err := s.Issue(id)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	got, err := s.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, id, got)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	require.Equal(t, id.String(), claims["sub"])
	require.NotContains(t, claims, "userId")
}

func TestTokenService_Expired(t *testing.T) {
	s := NewTokenService(testSecret, time.Minute)
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := s.Issue(uuid.New())
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.VerifyToken(context.Background(), token)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, _, err := NewTokenService(testSecret, time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewTokenService("another-secret-another-secret-xx", time.Hour).VerifyToken(context.Background(), token)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_LegacyClaimAndBadID(t *testing.T) {
	s := NewTokenService(testSecret, time.Hour)
	id := uuid.New()

	sign := func(claims jwt.MapClaims) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return tok
	}
	exp := time.Now().Add(time.Hour).Unix()

	got, err := s.VerifyToken(context.Background(), sign(jwt.MapClaims{"user_id": id.String(), "exp": exp}))
	require.NoError(t, err)
	require.Equal(t, id, got)

	got, err = s.VerifyToken(context.Background(), sign(jwt.MapClaims{"userId": id.String(), "exp": exp}))
	require.NoError(t, err)
	require.Equal(t, id, got)

	_, err = s.VerifyToken(context.Background(), sign(jwt.MapClaims{"userId": "42", "exp": exp}))
	require.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = s.VerifyToken(context.Background(), sign(jwt.MapClaims{"exp": exp}))
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_RejectsNoneAlg(t *testing.T) {
	s := NewTokenService(testSecret, time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": uuid.NewString()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.VerifyToken(context.Background(), tok)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}
