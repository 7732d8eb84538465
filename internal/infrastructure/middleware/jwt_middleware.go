// Package middleware 提供 Gin 中间件
// 本文件实现基于 Cookie JWT 的身份认证
package middleware

import (
	"net/http"

	"safespace_chat_server/pkg/errorx"
	"safespace_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// 认证信息在 gin.Context 里的键名
const (
	CtxActorId     = "actor_id"     // 当前登录者 UUID（用户或陪伴者）
	CtxIsCompanion = "is_companion" // 是否陪伴者身份
	CtxDisplayName = "display_name" // 登录时的展示名
)

// UserCookieName / CompanionCookieName 两种身份各用一个 Cookie
// 同一个浏览器可以同时持有两种身份（调试时常见）
const (
	UserCookieName      = "token"
	CompanionCookieName = "companion_token"
)

// JWTAuth 身份认证中间件
// 从 Cookie 解析 JWT，任意一种身份有效即放行，
// 并把身份信息挂到上下文供 Handler 使用
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := parseFromCookie(c, UserCookieName)
		if claims == nil {
			claims = parseFromCookie(c, CompanionCookieName)
		}
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "Silakan masuk terlebih dahulu",
			})
			return
		}

		c.Set(CtxActorId, claims.UserID)
		c.Set(CtxIsCompanion, claims.IsCompanion)
		c.Set(CtxDisplayName, claims.DisplayName)
		c.Next()
	}
}

// RequireCompanion 陪伴者专用路由的角色检查
// 必须在 JWTAuth 之后挂载；普通用户访问返回 403（已认证但规则不允许）
func RequireCompanion() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsCompanion) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code": errorx.CodePolicyForbidden,
				"msg":  "Hanya pendamping yang dapat mengakses",
			})
			return
		}
		c.Next()
	}
}

// parseFromCookie 从指定 Cookie 解析 JWT，无效返回 nil
func parseFromCookie(c *gin.Context, name string) *jwt.Claims {
	tokenStr, err := c.Cookie(name)
	if err != nil || tokenStr == "" {
		return nil
	}
	claims, err := jwt.ParseToken(tokenStr)
	if err != nil {
		return nil
	}
	return claims
}
