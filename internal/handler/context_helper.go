package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// bearerToken returns the Canvas token supplied on the request, if any. An
// empty result means the gateway falls back to the configured
// service-account token.
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
