package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/surveybot/config"
	"github.com/vnkhanh/surveybot/models"
	"github.com/vnkhanh/surveybot/utils"
)

const (
	SessionCookie = "surveybot_session"
	CtxIssuer     = "issuer"
)

// SessionToken lấy token phiên từ cookie, nếu không có thì từ Authorization: Bearer <token>.
func SessionToken(c *gin.Context) string {
	if v, err := c.Cookie(SessionCookie); err == nil && v != "" {
		return v
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// RequireIssuer chặn request chưa đăng nhập, nạp issuer vào context.
func RequireIssuer() gin.HandlerFunc {
	return func(c *gin.Context) {
		issuerID, err := utils.VerifySessionToken(SessionToken(c), config.App.SessionSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var issuer models.Issuer
		if err := config.DB.First(&issuer, issuerID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(CtxIssuer, issuer)
		c.Next()
	}
}

// CurrentIssuer đọc issuer do RequireIssuer gắn vào context.
func CurrentIssuer(c *gin.Context) models.Issuer {
	return c.MustGet(CtxIssuer).(models.Issuer)
}
