package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"liff-member-backend/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testChannelID     = "1657000000"
	testChannelSecret = "channel-secret"
)

func signIDToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    "https://access.line.me",
		Subject:   "U123",
		Audience:  jwt.ClaimStrings{testChannelID},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
}

func newLineTestVerifier(t *testing.T, handler http.HandlerFunc) *LineVerifier {
	t.Helper()
	apiBase := "http://127.0.0.1:1"
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		apiBase = srv.URL
	}
	return NewLineVerifier(config.LineConfig{
		ChannelID:     testChannelID,
		ChannelSecret: testChannelSecret,
		APIBaseURL:    apiBase,
	})
}

func TestLineVerifier_IDToken(t *testing.T) {
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	otherAudience := validClaims()
	otherAudience.Audience = jwt.ClaimStrings{"999"}

	otherIssuer := validClaims()
	otherIssuer.Issuer = "https://example.com"

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantSub string
	}{
		{
			name:    "valid",
			token:   func(t *testing.T) string { return signIDToken(t, testChannelSecret, validClaims()) },
			wantSub: "U123",
		},
		{
			name:  "wrong secret",
			token: func(t *testing.T) string { return signIDToken(t, "other-secret", validClaims()) },
		},
		{
			name:  "expired",
			token: func(t *testing.T) string { return signIDToken(t, testChannelSecret, expired) },
		},
		{
			name:  "other channel",
			token: func(t *testing.T) string { return signIDToken(t, testChannelSecret, otherAudience) },
		},
		{
			name:  "other issuer",
			token: func(t *testing.T) string { return signIDToken(t, testChannelSecret, otherIssuer) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newLineTestVerifier(t, nil)

			sub, err := v.VerifyToken(context.Background(), tt.token(t))

			if tt.wantSub == "" {
				assert.True(t, errors.Is(err, ErrLineTokenRejected), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSub, sub)
		})
	}
}

func TestLineVerifier_AccessToken(t *testing.T) {
	tests := []struct {
		name        string
		verify      func(w http.ResponseWriter)
		profile     func(w http.ResponseWriter)
		wantUserID  string
		wantProfile bool
	}{
		{
			name: "valid",
			verify: func(w http.ResponseWriter) {
				writeJSON(w, http.StatusOK, `{"scope":"profile","client_id":"1657000000","expires_in":2591659}`)
			},
			profile: func(w http.ResponseWriter) {
				writeJSON(w, http.StatusOK, `{"userId":"U123","displayName":"小明"}`)
			},
			wantUserID:  "U123",
			wantProfile: true,
		},
		{
			name: "expired",
			verify: func(w http.ResponseWriter) {
				writeJSON(w, http.StatusBadRequest, `{"error":"invalid_request","error_description":"access token expired"}`)
			},
		},
		{
			name: "token from another channel",
			verify: func(w http.ResponseWriter) {
				writeJSON(w, http.StatusOK, `{"scope":"profile","client_id":"42","expires_in":100}`)
			},
		},
		{
			name: "profile rejected",
			verify: func(w http.ResponseWriter) {
				writeJSON(w, http.StatusOK, `{"scope":"profile","client_id":"1657000000","expires_in":100}`)
			},
			profile: func(w http.ResponseWriter) {
				writeJSON(w, http.StatusUnauthorized, `{"message":"Authentication failed"}`)
			},
			wantProfile: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profileCalled := false
			v := newLineTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/oauth2/v2.1/verify":
					assert.Equal(t, "access-token", r.URL.Query().Get("access_token"))
					tt.verify(w)
				case "/v2/profile":
					profileCalled = true
					assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
					tt.profile(w)
				default:
					w.WriteHeader(http.StatusNotFound)
				}
			})

			userID, err := v.VerifyToken(context.Background(), "access-token")

			assert.Equal(t, tt.wantProfile, profileCalled)
			if tt.wantUserID == "" {
				assert.True(t, errors.Is(err, ErrLineTokenRejected), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUserID, userID)
		})
	}
}
