// Package https_server 提供 HTTP 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"safespace_chat_server/internal/handler"
	"safespace_chat_server/internal/infrastructure/logger"
	"safespace_chat_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init 初始化 HTTP 服务器并返回 Gin 引擎实例
// 配置顺序：
//  1. 创建空白 Gin 引擎（不含默认中间件，完全控制中间件链）
//  2. 注册 Zap 日志和 Panic 恢复中间件
//  3. 配置 CORS 跨域规则（Cookie 认证需要 AllowCredentials）
//  4. 注册业务路由
func Init(handlers *handler.Handlers) *gin.Engine {
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))

	// Cookie 认证要求浏览器携带凭证，通配 Origin 与 Credentials 互斥，
	// 这里放开所有来源回显（生产环境应收紧为具体域名）
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = false
	corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	engine.Use(cors.New(corsConfig))

	// TLS 重定向中间件（可选，由 Nginx 终结 SSL 时保持注释）
	// engine.Use(middleware.TlsHandler(config.GetConfig().MainConfig.Host, config.GetConfig().MainConfig.Port))

	rt := router.NewRouter(handlers)
	rt.RegisterRoutes(engine)

	return engine
}
