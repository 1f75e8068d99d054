package middleware

import (
	"context"
	"net/http"
	"strings"

	"brew-recipe-generator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserIDKey 驗證通過後呼叫者 ID 存放在 gin context 的鍵
const UserIDKey = "user_id"

// TokenVerifier 身份驗證閘道
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// RequireAuth 單一進入點的身份驗證守衛
// 令牌缺失或無效一律預設拒絕，後續處理器不再做任何驗證檢查
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing or invalid bearer token",
				"code":  common.ErrCodeUnauthorized,
			})
			return
		}

		userID, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil || userID == "" {
			common.LogWarn("身份驗證失敗",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing or invalid bearer token",
				"code":  common.ErrCodeUnauthorized,
			})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// extractBearerToken 從 Authorization 標頭取出令牌
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
