package utils

import (
	"github.com/gin-gonic/gin"
)

// RespondWithError aborts the request with a flat {message} body.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
