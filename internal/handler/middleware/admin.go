package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"undangan/rsvphub/internal/service"
	"undangan/rsvphub/pkg/response"
)

const PINHeader = "X-Admin-PIN"

// BearerToken returns the token of an "Authorization: Bearer <token>" header, or "".
func BearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AdminAuth admits a valid admin session token or the raw admin PIN header.
func AdminAuth(admin service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := BearerToken(c); token != "" {
			if err := admin.Authorize(c.Request.Context(), token); err != nil {
				response.Unauthorized(c, "Sesi admin tidak valid")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		if pin := c.GetHeader(PINHeader); pin != "" {
			if !admin.CheckPIN(pin) {
				response.Unauthorized(c, "PIN salah")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		response.Unauthorized(c, "Akses admin diperlukan")
		c.Abort()
	}
}
