package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	id  uuid.UUID
	err error
	got string
}

func (s *stubVerifier) VerifyToken(_ context.Context, token string) (uuid.UUID, error) {
	s.got = token
	return s.id, s.err
}

func authEngine(v TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", NewAuthMiddleware(v).RequireAuth(), func(c *gin.Context) {
		id, _ := c.Get("user_id")
		c.String(http.StatusOK, id.(uuid.UUID).String())
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		header   string
		verifier *stubVerifier
		status   int
	}{
		{name: "missing header", header: "", verifier: &stubVerifier{id: id}, status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", verifier: &stubVerifier{id: id}, status: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer   ", verifier: &stubVerifier{id: id}, status: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer abc", verifier: &stubVerifier{err: errors.New("bad")}, status: http.StatusUnauthorized},
		{name: "valid", header: "Bearer abc", verifier: &stubVerifier{id: id}, status: http.StatusOK},
		{name: "scheme is case insensitive", header: "bearer abc", verifier: &stubVerifier{id: id}, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			authEngine(tt.verifier).ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				require.Equal(t, id.String(), rec.Body.String())
				require.Equal(t, "abc", tt.verifier.got)
			} else {
				require.Contains(t, rec.Body.String(), `"error":"unauthorized"`)
			}
		})
	}
}
