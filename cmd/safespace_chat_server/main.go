package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"safespace_chat_server/internal/config"
	dao "safespace_chat_server/internal/dao/mysql"
	myredis "safespace_chat_server/internal/dao/redis"
	"safespace_chat_server/internal/handler"
	"safespace_chat_server/internal/https_server"
	"safespace_chat_server/internal/infrastructure/logger"
	"safespace_chat_server/internal/service"
	"safespace_chat_server/pkg/util/jwt"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis
	myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 5. 初始化 JWT
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.TokenExpiry)
	zap.L().Info("JWT 初始化成功")

	// 6. 初始化参数校验翻译器（印尼语）
	if err := handler.InitTrans("id"); err != nil {
		zap.L().Fatal("校验翻译器初始化失败", zap.Error(err))
	}

	// 7. 装配 Service 和 Handler 层（依赖注入）
	services := service.NewServices(repos, myredis.GetCacheService())
	handlers := handler.NewHandlers(services)
	zap.L().Info("Service/Handler 层初始化成功")

	// 8. 初始化 HTTP 服务器
	engine := https_server.Init(handlers)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()
	zap.L().Info("服务器已启动", zap.String("addr", srv.Addr))

	// 9. 等待退出信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("服务器关闭异常", zap.Error(err))
	}
	zap.L().Info("服务器已关闭")
}
