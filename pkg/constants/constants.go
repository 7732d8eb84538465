package constants

import "time"

const (
	REDIS_TIMEOUT = 1 // redis 缓存有效期（分钟）

	// ANON_NUMBER_MIN / ANON_NUMBER_MAX 匿名编号的取值区间（闭区间）
	ANON_NUMBER_MIN = 1
	ANON_NUMBER_MAX = 999
	// ANON_MAX_RETRIES 匿名编号随机抽取的最大尝试次数
	ANON_MAX_RETRIES = 20

	// POLL_INTERVAL 客户端轮询间隔，足够短以接近实时，又不会压垮服务端
	POLL_INTERVAL = 1500 * time.Millisecond

	// TIME_CURSOR_LAYOUT 消息游标（createdAt / after / serverTime）的序列化格式
	// 带毫秒，保证严格大于比较在存储精度内成立
	TIME_CURSOR_LAYOUT = "2006-01-02T15:04:05.000Z07:00"
)
