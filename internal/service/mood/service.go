// Package mood 实现心情打卡服务
package mood

import (
	"safespace_chat_server/internal/dao/mysql/repository"
	"safespace_chat_server/internal/dto/request"
	"safespace_chat_server/internal/dto/respond"
	"safespace_chat_server/internal/model"
	"safespace_chat_server/pkg/constants"
	"safespace_chat_server/pkg/errorx"
)

// recentMoodLimit 最近打卡记录的返回条数
const recentMoodLimit = 30

// Service MoodService 接口的实现
type Service struct {
	repos *repository.Repositories
}

// NewService 创建心情打卡服务实例
func NewService(repos *repository.Repositories) *Service {
	return &Service{repos: repos}
}

// CreateEntry 创建打卡记录
func (s *Service) CreateEntry(userId string, req *request.CreateMoodRequest) (*respond.MoodRespond, error) {
	if req.Mood < 1 || req.Mood > 5 {
		return nil, errorx.New(errorx.CodeInvalidParam, "Nilai mood harus antara 1 dan 5")
	}

	entry := &model.MoodEntry{
		UserId: userId,
		Mood:   req.Mood,
		Note:   req.Note,
	}
	if err := s.repos.Mood.Create(entry); err != nil {
		return nil, err
	}
	return toMoodRespond(entry), nil
}

// GetRecentEntries 查询用户最近的打卡记录
func (s *Service) GetRecentEntries(userId string) ([]respond.MoodRespond, error) {
	entries, err := s.repos.Mood.FindRecentByUser(userId, recentMoodLimit)
	if err != nil {
		return nil, err
	}
	list := make([]respond.MoodRespond, 0, len(entries))
	for i := range entries {
		list = append(list, *toMoodRespond(&entries[i]))
	}
	return list, nil
}

// toMoodRespond 把打卡模型转换为响应 DTO
func toMoodRespond(entry *model.MoodEntry) *respond.MoodRespond {
	return &respond.MoodRespond{
		Mood:      entry.Mood,
		Note:      entry.Note,
		CreatedAt: entry.CreatedAt.Format(constants.TIME_CURSOR_LAYOUT),
	}
}
