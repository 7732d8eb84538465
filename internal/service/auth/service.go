// Package auth 实现登录与身份服务
// 普通用户走邀请码登录（免密码、幂等注册），陪伴者走账号密码登录
package auth

import (
	"strings"

	"safespace_chat_server/internal/config"
	"safespace_chat_server/internal/dao/mysql/repository"
	"safespace_chat_server/internal/dto/request"
	"safespace_chat_server/internal/dto/respond"
	"safespace_chat_server/internal/model"
	"safespace_chat_server/pkg/errorx"
	"safespace_chat_server/pkg/util/random"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AnonCollaborator 登录时分配匿名编号的能力子集
type AnonCollaborator interface {
	EnsureAnonNumber(userId string) (int, error)
}

// Service AuthService 接口的实现
type Service struct {
	repos *repository.Repositories
	anon  AnonCollaborator
}

// NewService 创建身份服务实例
func NewService(repos *repository.Repositories, anon AnonCollaborator) *Service {
	return &Service{repos: repos, anon: anon}
}

// Login 用户邀请码登录
// 同一昵称 + 同一邀请码视为同一用户：已存在直接返回，不存在则注册。
// 匿名编号在登录时就兜底分配，保证陪伴者侧任何时候都有标签可展示
func (s *Service) Login(req *request.LoginRequest) (*respond.LoginRespond, error) {
	inviteCode := strings.TrimSpace(req.InviteCode)
	if !isValidInviteCode(inviteCode) {
		return nil, errorx.New(errorx.CodeUnauthorized, "Kode undangan tidak valid")
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "Nama tampilan tidak boleh kosong")
	}

	user, err := s.repos.User.FindByDisplayNameAndInvite(displayName, inviteCode)
	if errorx.IsNotFound(err) {
		user = &model.UserInfo{
			Uuid:        "U" + random.GetNowAndLenRandomString(11),
			DisplayName: displayName,
			InviteCode:  inviteCode,
		}
		if err := s.repos.User.Create(user); err != nil {
			// 并发注册撞唯一索引：重读一次，仍失败才放弃
			if fresh, rerr := s.repos.User.FindByDisplayNameAndInvite(displayName, inviteCode); rerr == nil {
				user = fresh
			} else {
				return nil, err
			}
		}
	} else if err != nil {
		return nil, err
	}

	n, err := s.anon.EnsureAnonNumber(user.Uuid)
	if err != nil {
		// 编号分配失败不阻断登录，列表路径还会再兜底一次
		zap.L().Warn("登录时匿名编号分配失败", zap.String("user_id", user.Uuid), zap.Error(err))
		n = 0
	}

	return &respond.LoginRespond{
		UserId:      user.Uuid,
		DisplayName: user.DisplayName,
		IsCompanion: false,
		AnonNumber:  n,
	}, nil
}

// CompanionLogin 陪伴者账号密码登录
// 账号不存在与密码错误返回同一条消息，避免账号枚举
func (s *Service) CompanionLogin(req *request.CompanionLoginRequest) (*respond.LoginRespond, error) {
	companion, err := s.repos.User.FindCompanionByName(strings.TrimSpace(req.Username))
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUnauthorized, "Nama pengguna atau kata sandi salah")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(companion.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errorx.New(errorx.CodeUnauthorized, "Nama pengguna atau kata sandi salah")
	}

	return &respond.LoginRespond{
		UserId:      companion.Uuid,
		DisplayName: companion.DisplayName,
		IsCompanion: true,
	}, nil
}

// Me 查询当前登录身份
func (s *Service) Me(userId string) (*respond.LoginRespond, error) {
	user, err := s.repos.User.FindByUuid(userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.ErrUnauthorized
		}
		return nil, err
	}

	rsp := &respond.LoginRespond{
		UserId:      user.Uuid,
		DisplayName: user.DisplayName,
		IsCompanion: user.IsCompanion,
	}
	if user.AnonNumber.Valid {
		rsp.AnonNumber = int(user.AnonNumber.Int32)
	}
	return rsp, nil
}

// ListCompanions 陪伴者名录
// 用户创建私聊房间时从这里选择陪伴者；只下发 id 和名称
func (s *Service) ListCompanions() ([]respond.CompanionRespond, error) {
	companions, err := s.repos.User.FindCompanions()
	if err != nil {
		return nil, err
	}
	list := make([]respond.CompanionRespond, 0, len(companions))
	for i := range companions {
		list = append(list, respond.CompanionRespond{
			CompanionId: companions[i].Uuid,
			DisplayName: companions[i].DisplayName,
		})
	}
	return list, nil
}

// isValidInviteCode 校验邀请码是否在配置的白名单里
func isValidInviteCode(code string) bool {
	if code == "" {
		return false
	}
	for _, c := range config.GetConfig().InviteConfig.Codes {
		if c == code {
			return true
		}
	}
	return false
}
