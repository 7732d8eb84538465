// Package api 提供服务端 HTTP 接口的客户端封装
// 轮询器和命令行工具通过它访问服务端，Cookie 会话由 cookiejar 自动维护
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"safespace_chat_server/internal/dto/request"
	"safespace_chat_server/internal/dto/respond"
	"safespace_chat_server/pkg/errorx"
)

// Client 服务端 API 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// envelope 服务端统一响应结构
type envelope struct {
	Code int             `json:"code"`
	Msg  json.RawMessage `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// NewClient 创建 API 客户端
// baseURL 形如 "http://localhost:8000"，登录后的 Cookie 自动保存复用
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Login 用户邀请码登录
func (c *Client) Login(ctx context.Context, inviteCode, displayName string) (*respond.LoginRespond, error) {
	var data respond.LoginRespond
	err := c.do(ctx, http.MethodPost, "/auth/login", nil,
		&request.LoginRequest{InviteCode: inviteCode, DisplayName: displayName}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// CompanionLogin 陪伴者账号密码登录
func (c *Client) CompanionLogin(ctx context.Context, username, password string) (*respond.LoginRespond, error) {
	var data respond.LoginRespond
	err := c.do(ctx, http.MethodPost, "/auth/companion/login", nil,
		&request.CompanionLoginRequest{Username: username, Password: password}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// CreateSession 创建会话
func (c *Client) CreateSession(ctx context.Context, topic, companionId string) (*respond.CreateSessionRespond, error) {
	var data respond.CreateSessionRespond
	err := c.do(ctx, http.MethodPost, "/sessions", nil,
		&request.CreateSessionRequest{Topic: topic, CompanionId: companionId}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// FetchMessages 增量拉取消息
// after 为空做全量拉取
func (c *Client) FetchMessages(ctx context.Context, sessionId, after string) (*respond.GetMessageListRespond, error) {
	query := url.Values{}
	query.Set("sessionId", sessionId)
	if after != "" {
		query.Set("after", after)
	}
	var data respond.GetMessageListRespond
	if err := c.do(ctx, http.MethodGet, "/messages", query, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// SendMessage 发送消息，返回带服务端 id 和时间戳的完整记录
func (c *Client) SendMessage(ctx context.Context, sessionId, text string) (*respond.MessageRespond, error) {
	var data respond.SendMessageRespond
	err := c.do(ctx, http.MethodPost, "/messages", nil,
		&request.SendMessageRequest{SessionId: sessionId, Text: text}, &data)
	if err != nil {
		return nil, err
	}
	return &data.Message, nil
}

// CloseSession 陪伴者关闭群组房间
func (c *Client) CloseSession(ctx context.Context, sessionId string) error {
	return c.do(ctx, http.MethodPost, "/companion/close", nil,
		&request.CloseSessionRequest{SessionId: sessionId}, nil)
}

// MarkRead 陪伴者标记已读
func (c *Client) MarkRead(ctx context.Context, sessionId string) error {
	return c.do(ctx, http.MethodPost, "/companion/read", nil,
		&request.MarkReadRequest{SessionId: sessionId}, nil)
}

// do 执行一次请求并解析统一响应结构
// 非成功业务码转换为 CodeError，调用方可统一用 errorx 判断
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rsp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()

	raw, err := io.ReadAll(rsp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response (status %d): %w", rsp.StatusCode, err)
	}
	if env.Code != errorx.CodeSuccess {
		return errorx.New(env.Code, string(env.Msg))
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
