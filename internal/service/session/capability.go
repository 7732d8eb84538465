package session

import "sync/atomic"

// schemaCaps 存储层可选列的能力开关
// 进程启动时乐观假设所有可选列都存在；首次碰到"列不存在"错误后
// 关闭对应开关，之后的请求直接走降级路径，不再反复撞同一个错误。
// 开关只会从开到关，单向且并发安全
type schemaCaps struct {
	readTracking  atomic.Bool // companion_last_read_at 列是否可用
	roomLifecycle atomic.Bool // room_type / status / closed_* 列是否可用
}

// newSchemaCaps 创建能力开关，默认全部可用
func newSchemaCaps() *schemaCaps {
	caps := &schemaCaps{}
	caps.readTracking.Store(true)
	caps.roomLifecycle.Store(true)
	return caps
}
