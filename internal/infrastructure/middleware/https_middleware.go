package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// TlsHandler HTTPS 重定向中间件
// 把 HTTP 请求重定向到对应的 HTTPS 地址
func TlsHandler(host string, port int) gin.HandlerFunc {
	// 只初始化一次，避免每个请求重复创建
	secureMiddleware := secure.New(secure.Options{
		SSLRedirect: true,
		SSLHost:     host + ":" + strconv.Itoa(port),
	})

	return func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			// 中间件里不能 Fatal，记错误并终止当前请求即可
			zap.L().Error("TLS redirection failed", zap.Error(err))
			c.Abort()
			return
		}
		c.Next()
	}
}
