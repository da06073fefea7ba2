package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wfm/backend/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// 上限由 server.max_body_bytes 配置，需容纳整日排休的 CSV 导入文件
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, ginErr := range c.Errors {
			var mbe *http.MaxBytesError
			if errors.As(ginErr.Err, &mbe) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
