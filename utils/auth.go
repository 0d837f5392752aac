// utils/auth.go
package utils

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// LineUserIDKey is the gin context key holding the verified LINE user id.
const LineUserIDKey = "lineUserId"

const passwordHashCost = 12

// MessageTokenRejected is returned when the LIFF token cannot be verified.
const MessageTokenRejected = "LINE 身分驗證失敗"

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// BearerToken strips an optional "Bearer " prefix from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[0:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// TokenVerifier resolves a LIFF token to the LINE user id it was issued for.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// LineAuthMiddleware verifies the LIFF token in the Authorization header and
// stores the LINE user id under LineUserIDKey.
func LineAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			RespondWithError(c, http.StatusUnauthorized, MessageTokenRejected)
			return
		}

		userID, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil || userID == "" {
			RespondWithError(c, http.StatusUnauthorized, MessageTokenRejected)
			return
		}

		c.Set(LineUserIDKey, userID)
		c.Next()
	}
}
