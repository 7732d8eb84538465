package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig JWT 配置
type JWTConfig struct {
	Secret      string
	TokenExpiry time.Duration // 会话 Token 有效期
}

// 全局配置，由 Init 函数初始化
var jwtConfig *JWTConfig

// Init 初始化 JWT 配置
func Init(secret string, expiryHours int) {
	jwtConfig = &JWTConfig{
		Secret:      secret,
		TokenExpiry: time.Duration(expiryHours) * time.Hour,
	}
}

// Claims 自定义 JWT 声明
// 同一套签名同时用于用户和陪伴者两种身份，靠 IsCompanion 区分
type Claims struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	IsCompanion bool   `json:"is_companion,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken 生成会话 Token
// isCompanion 为 true 时签发陪伴者身份
func GenerateToken(userID, displayName string, isCompanion bool) (string, error) {
	claims := Claims{
		UserID:      userID,
		DisplayName: displayName,
		IsCompanion: isCompanion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(jwtConfig.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "safespace",
			Subject:   "session_token",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.Secret))
}

// ParseToken 解析并验证 Token
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtConfig.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
