// Package anon 实现匿名编号服务
// 陪伴者永远看不到用户昵称，只能看到 "Pengguna NNN" 这样的匿名标签
package anon

import (
	"fmt"

	"safespace_chat_server/internal/dao/mysql/repository"
	"safespace_chat_server/pkg/constants"
	"safespace_chat_server/pkg/errorx"
	"safespace_chat_server/pkg/util/random"

	"go.uber.org/zap"
)

// Service AnonService 接口的实现
type Service struct {
	repos *repository.Repositories
}

// NewService 创建匿名编号服务实例
func NewService(repos *repository.Repositories) *Service {
	return &Service{repos: repos}
}

// EnsureAnonNumber 确保用户持有匿名编号并返回它
// 幂等：已分配直接返回已有编号，绝不重新分配
// 分配流程：均匀抽取候选 -> 占用检查 -> 条件写入；写入失败（并发竞争）时
// 先重读用户确认是否已被并行请求分配，未分配则换候选继续
func (s *Service) EnsureAnonNumber(userId string) (int, error) {
	user, err := s.repos.User.FindByUuid(userId)
	if err != nil {
		return 0, err
	}
	if user.AnonNumber.Valid && user.AnonNumber.Int32 > 0 {
		return int(user.AnonNumber.Int32), nil
	}

	for attempt := 0; attempt < constants.ANON_MAX_RETRIES; attempt++ {
		candidate := random.GetRandomIntInRange(constants.ANON_NUMBER_MIN, constants.ANON_NUMBER_MAX)

		// 占用检查：编号已有主人则直接换下一个候选
		if _, err := s.repos.User.FindByAnonNumber(candidate); err == nil {
			continue
		} else if !errorx.IsNotFound(err) {
			return 0, err
		}

		if err := s.repos.User.AssignAnonNumber(userId, candidate); err != nil {
			// 写入失败的两种可能：
			// 1. 并行请求已为该用户写入编号（条件更新未命中行）-> 重读返回已有编号
			// 2. 候选编号被其他用户抢占（唯一索引冲突）-> 换候选重试
			if fresh, rerr := s.repos.User.FindByUuid(userId); rerr == nil &&
				fresh.AnonNumber.Valid && fresh.AnonNumber.Int32 > 0 {
				return int(fresh.AnonNumber.Int32), nil
			}
			zap.L().Debug("匿名编号候选写入失败,更换候选重试",
				zap.String("user_id", userId), zap.Int("candidate", candidate), zap.Error(err))
			continue
		}
		return candidate, nil
	}

	// 编号空间接近耗尽或持续竞争失败：有限次尝试后放弃，不无限阻塞
	zap.L().Error("匿名编号分配失败,重试次数耗尽", zap.String("user_id", userId))
	return 0, errorx.New(errorx.CodeServerBusy, "Nomor anonim tidak tersedia, coba lagi nanti")
}

// FormatAnonLabel 把匿名编号格式化为展示标签
// 无效编号（<=0）显示占位标签，保证任何状态下都有可展示的文本
func (s *Service) FormatAnonLabel(n int) string {
	if n <= 0 {
		return "Pengguna ---"
	}
	return fmt.Sprintf("Pengguna %03d", n)
}
