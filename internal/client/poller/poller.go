// Package poller 实现客户端消息轮询循环
// 用固定间隔的增量拉取逼近实时投递，不依赖持久连接。
// 每个活跃会话只有一个轮询器、一个自持的定时器、同一时刻至多一个在途请求
package poller

import (
	"context"
	"strings"
	"sync"
	"time"

	"safespace_chat_server/internal/dto/respond"
	"safespace_chat_server/pkg/constants"
	"safespace_chat_server/pkg/enum/chat_session/session_status_enum"

	"go.uber.org/zap"
)

// ChatAPI 轮询器依赖的服务端接口子集
type ChatAPI interface {
	// FetchMessages 拉取消息，after 为空做全量拉取
	FetchMessages(ctx context.Context, sessionId, after string) (*respond.GetMessageListRespond, error)
	// SendMessage 发送消息，返回带服务端 id 和时间戳的记录
	SendMessage(ctx context.Context, sessionId, text string) (*respond.MessageRespond, error)
}

// View 轮询器驱动的展示层接口
// 轮询器不关心消息怎么渲染，只负责在正确的时机通知
type View interface {
	// ReplaceMessages 初次加载：整体替换消息列表
	ReplaceMessages(messages []respond.MessageRespond)
	// AppendMessages 增量到达：追加新消息
	AppendMessages(messages []respond.MessageRespond)
	// ScrollToBottom 滚动到底部；force 为 true 时无条件滚动
	ScrollToBottom(force bool)
	// NearBottom 当前视图是否接近底部（决定新消息是否自动滚动）
	NearBottom() bool
	// SessionClosed 会话被关闭时通知一次
	SessionClosed()
}

// Poller 单个会话的轮询器
// 游标推进规则：游标 = 最后收到的消息的 createdAt；
// 空会话用服务端下发的 serverTime 做游标种子，避免反复全量拉取。
// 服务端按严格大于返回，同时间戳边界可能重复下发，这里按 messageId 去重
type Poller struct {
	api  ChatAPI
	view View

	sessionId string
	interval  time.Duration

	mu         sync.Mutex
	cursor     string              // 下一次拉取的 after 参数
	cursorTime time.Time           // 游标的解析值，用于单调推进判断
	seen       map[string]struct{} // 已处理的 messageId
	loaded     bool                // 是否完成初次全量加载
	suspended  bool                // 暂停标志（标签页隐藏等）
	closed     bool                // 会话已关闭，停止轮询
	inFlight   bool                // 在途请求防护，避免游标乱序推进

	cancel context.CancelFunc
	done   chan struct{}
}

// New 创建会话轮询器，未启动
func New(api ChatAPI, view View, sessionId string) *Poller {
	return &Poller{
		api:       api,
		view:      view,
		sessionId: sessionId,
		interval:  constants.POLL_INTERVAL,
		seen:      make(map[string]struct{}),
	}
}

// Start 启动轮询循环
// 启动后立刻做一次初次加载，之后按固定间隔增量拉取；
// 重复调用是空操作
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.mu.Unlock()

	go p.run(ctx)
}

// Stop 停止轮询并等待循环退出
// 切换会话前必须先 Stop，保证任何时刻只有一个定时器在跑
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Suspend 暂停拉取（如标签页隐藏），定时器保留但不发请求
func (p *Poller) Suspend() {
	p.mu.Lock()
	p.suspended = true
	p.mu.Unlock()
}

// Resume 恢复拉取
func (p *Poller) Resume() {
	p.mu.Lock()
	p.suspended = false
	p.mu.Unlock()
}

// Send 发送消息（乐观更新）
// 服务端返回后按 messageId 登记去重，这条消息在下一轮拉取中不会重复出现，
// 同时把游标推进到它的时间戳
func (p *Poller) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	msg, err := p.api.SendMessage(ctx, p.sessionId, text)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if _, dup := p.seen[msg.MessageId]; !dup {
		p.seen[msg.MessageId] = struct{}{}
		p.advanceCursorLocked(msg.CreatedAt)
		p.mu.Unlock()
		p.view.AppendMessages([]respond.MessageRespond{*msg})
		p.view.ScrollToBottom(true)
		return nil
	}
	p.mu.Unlock()
	return nil
}

// run 轮询主循环，独占自己的定时器
func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// 启动即做一次初次加载，不等第一个 tick
	p.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

// pollOnce 执行一次拉取
// 暂停、已关闭或上一次请求仍在途时直接跳过本轮
func (p *Poller) pollOnce(ctx context.Context) {
	p.mu.Lock()
	if p.suspended || p.closed || p.inFlight {
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	after := ""
	if p.loaded {
		after = p.cursor
	}
	initial := !p.loaded
	p.mu.Unlock()

	rsp, err := p.api.FetchMessages(ctx, p.sessionId, after)

	p.mu.Lock()
	p.inFlight = false
	if err != nil {
		p.mu.Unlock()
		// 轮询失败不终止循环，下一个 tick 重试
		zap.L().Warn("poll failed", zap.String("session_id", p.sessionId), zap.Error(err))
		return
	}

	fresh := make([]respond.MessageRespond, 0, len(rsp.Messages))
	for _, msg := range rsp.Messages {
		if _, dup := p.seen[msg.MessageId]; dup {
			continue
		}
		p.seen[msg.MessageId] = struct{}{}
		fresh = append(fresh, msg)
	}

	// 游标 = 最后收到的消息时间；会话仍为空时用服务端时间做种子
	if len(rsp.Messages) > 0 {
		p.advanceCursorLocked(rsp.Messages[len(rsp.Messages)-1].CreatedAt)
	} else if p.cursor == "" {
		p.advanceCursorLocked(rsp.ServerTime)
	}
	p.loaded = true

	sessionClosed := rsp.Session.Status == session_status_enum.CLOSED
	if sessionClosed {
		p.closed = true
	}
	p.mu.Unlock()

	if initial {
		p.view.ReplaceMessages(fresh)
		p.view.ScrollToBottom(true)
	} else if len(fresh) > 0 {
		p.view.AppendMessages(fresh)
		if p.view.NearBottom() {
			p.view.ScrollToBottom(false)
		}
	}
	if sessionClosed {
		p.view.SessionClosed()
	}
}

// advanceCursorLocked 单调推进游标（需持有 p.mu）
// 时间戳解析失败或早于当前游标时不动，保证游标永不回退
func (p *Poller) advanceCursorLocked(ts string) {
	if ts == "" {
		return
	}
	t, err := time.Parse(constants.TIME_CURSOR_LAYOUT, ts)
	if err != nil {
		return
	}
	if p.cursor == "" || t.After(p.cursorTime) {
		p.cursor = ts
		p.cursorTime = t
	}
}
