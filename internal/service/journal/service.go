// Package journal 实现私人日记服务
// 日记条目只对作者本人可见
package journal

import (
	"strings"

	"safespace_chat_server/internal/dao/mysql/repository"
	"safespace_chat_server/internal/dto/request"
	"safespace_chat_server/internal/dto/respond"
	"safespace_chat_server/internal/model"
	"safespace_chat_server/pkg/constants"
	"safespace_chat_server/pkg/errorx"

	"github.com/google/uuid"
)

// Service JournalService 接口的实现
type Service struct {
	repos *repository.Repositories
}

// NewService 创建日记服务实例
func NewService(repos *repository.Repositories) *Service {
	return &Service{repos: repos}
}

// CreateEntry 创建日记条目
func (s *Service) CreateEntry(userId string, req *request.CreateJournalRequest) (*respond.JournalRespond, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "Isi jurnal tidak boleh kosong")
	}

	entry := &model.JournalEntry{
		Uuid:    uuid.NewString(),
		UserId:  userId,
		Title:   strings.TrimSpace(req.Title),
		Content: content,
	}
	if err := s.repos.Journal.Create(entry); err != nil {
		return nil, err
	}
	return toJournalRespond(entry), nil
}

// GetEntryList 查询用户自己的日记条目，最新在前
func (s *Service) GetEntryList(userId string) ([]respond.JournalRespond, error) {
	entries, err := s.repos.Journal.FindByUser(userId)
	if err != nil {
		return nil, err
	}
	list := make([]respond.JournalRespond, 0, len(entries))
	for i := range entries {
		list = append(list, *toJournalRespond(&entries[i]))
	}
	return list, nil
}

// DeleteEntry 删除用户自己的日记条目
// 条目不存在或不属于该用户都返回 NotFound，不泄露他人条目的存在性
func (s *Service) DeleteEntry(userId, entryId string) error {
	if err := s.repos.Journal.SoftDeleteByUuidAndUser(entryId, userId); err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "Entri jurnal tidak ditemukan")
		}
		return err
	}
	return nil
}

// toJournalRespond 把日记模型转换为响应 DTO
func toJournalRespond(entry *model.JournalEntry) *respond.JournalRespond {
	return &respond.JournalRespond{
		EntryId:   entry.Uuid,
		Title:     entry.Title,
		Content:   entry.Content,
		CreatedAt: entry.CreatedAt.Format(constants.TIME_CURSOR_LAYOUT),
	}
}
