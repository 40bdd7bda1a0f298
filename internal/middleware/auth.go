package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// AdminRequired 校验管理接口的共享令牌。
// 引擎没有自己的用户体系（账号/会话归外部模块管），
// 诊断和对账接口只认 X-Admin-Token 请求头。
// 未配置 ADMIN_TOKEN 时一律拒绝，宁可锁死也不裸奔。
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := os.Getenv("ADMIN_TOKEN")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin endpoints disabled"})
			return
		}

		got := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
