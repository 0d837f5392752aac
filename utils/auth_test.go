package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct {
	userID string
	err    error
	got    string
}

func (s *stubVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	s.got = token
	return s.userID, s.err
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
	assert.True(t, CheckPasswordHash("secret", hash))
	assert.False(t, CheckPasswordHash("other", hash))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer abc"))
	assert.Equal(t, "abc", BearerToken("abc"))
	assert.Equal(t, "", BearerToken(""))
}

func TestLineAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifier   *stubVerifier
		wantStatus int
		wantUserID string
	}{
		{
			name:       "verified token",
			header:     "Bearer token-1",
			verifier:   &stubVerifier{userID: "U123"},
			wantStatus: http.StatusOK,
			wantUserID: "U123",
		},
		{
			name:       "missing header",
			verifier:   &stubVerifier{userID: "U123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "verifier rejects",
			header:     "Bearer bad",
			verifier:   &stubVerifier{err: errors.New("expired")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/", LineAuthMiddleware(tt.verifier), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"lineUserId": c.GetString(LineUserIDKey)})
			})

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantUserID, body["lineUserId"])
				assert.Equal(t, "token-1", tt.verifier.got)
			} else {
				assert.Equal(t, MessageTokenRejected, body["message"])
			}
		})
	}
}
