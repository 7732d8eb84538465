package random

import (
	"crypto/rand"
	"math/big"
	"time"
)

// GetRandomIntInRange 生成 [min, max] 闭区间内的安全随机整数
// 用于匿名编号候选值的均匀抽样
func GetRandomIntInRange(min, max int) int {
	if max < min {
		return min
	}
	rangeSize := big.NewInt(int64(max - min + 1))
	n, err := rand.Int(rand.Reader, rangeSize)
	if err != nil {
		return min // fallback
	}
	return int(n.Int64()) + min
}

// GetNowAndLenRandomString 生成带日期前缀的随机字符串（用于实体 UUID）
// 格式: YYMMDD + 字母数字混合
// 示例: 260901AbCdE1234567
func GetNowAndLenRandomString(length int) string {
	result := make([]byte, length)
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	charsetLen := big.NewInt(int64(len(charset)))
	for i := range result {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			result[i] = 'x'
			continue
		}
		result[i] = charset[n.Int64()]
	}
	return time.Now().Format("060102") + string(result)
}
