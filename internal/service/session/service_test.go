package session

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"safespace_chat_server/internal/dao/mysql/repository"
	"safespace_chat_server/internal/dto/request"
	"safespace_chat_server/internal/model"
	"safespace_chat_server/internal/service/anon"
	"safespace_chat_server/internal/service/message"
	"safespace_chat_server/pkg/enum/chat_session/room_type_enum"
	"safespace_chat_server/pkg/enum/chat_session/session_status_enum"
	"safespace_chat_server/pkg/errorx"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var testDBSeq atomic.Int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:session_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.UserInfo{}, &model.ChatSession{}, &model.Message{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// openLegacyTestDB 模拟未迁移的旧库：chat_sessions 缺少全部可选列
func openLegacyTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:session_legacy_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.UserInfo{}, &model.Message{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	ddl := `CREATE TABLE chat_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		uuid TEXT, topic TEXT, created_by TEXT, companion_id TEXT
	)`
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	return db
}

type stubCache struct{}

func (stubCache) Set(ctx context.Context, key, value string, ttl time.Duration) error { return nil }
func (stubCache) Get(ctx context.Context, key string) (string, error)                 { return "", nil }
func (stubCache) Delete(ctx context.Context, key string) error                        { return nil }
func (stubCache) DeleteByPattern(ctx context.Context, pattern string) error           { return nil }
func (stubCache) SubmitTask(action func())                                            { action() }

type fixture struct {
	repos      *repository.Repositories
	messageSvc *message.Service
	svc        *Service
}

func newFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	repos := repository.NewRepositories(db)
	messageSvc := message.NewService(repos, stubCache{})
	anonSvc := anon.NewService(repos)
	return &fixture{
		repos:      repos,
		messageSvc: messageSvc,
		svc:        NewService(repos, stubCache{}, messageSvc, anonSvc),
	}
}

func (f *fixture) seedUser(t *testing.T, uuid string, isCompanion bool) {
	t.Helper()
	err := f.repos.User.Create(&model.UserInfo{
		Uuid: uuid, DisplayName: "name-" + uuid, IsCompanion: isCompanion,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestCreateSessionRoomKind(t *testing.T) {
	f := newFixture(t, openTestDB(t))
	f.seedUser(t, "U1", false)
	f.seedUser(t, "C1", true)

	group, err := f.svc.CreateSession("U1", &request.CreateSessionRequest{Topic: "curhat"})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if group.RoomType != room_type_enum.GROUP || group.Status != session_status_enum.ACTIVE {
		t.Fatalf("unexpected group session: %+v", group)
	}

	private, err := f.svc.CreateSession("U1", &request.CreateSessionRequest{Topic: "curhat", CompanionId: "C1"})
	if err != nil {
		t.Fatalf("create private: %v", err)
	}
	if private.RoomType != room_type_enum.PRIVATE {
		t.Fatalf("unexpected private session: %+v", private)
	}
}

func TestCreateSessionEmptyTopic(t *testing.T) {
	f := newFixture(t, openTestDB(t))
	f.seedUser(t, "U1", false)

	_, err := f.svc.CreateSession("U1", &request.CreateSessionRequest{Topic: "   "})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("expected invalid param, got %v", err)
	}
}

func TestCloseSessionIdempotent(t *testing.T) {
	f := newFixture(t, openTestDB(t))
	f.seedUser(t, "U1", false)
	f.seedUser(t, "C1", true)

	created, err := f.svc.CreateSession("U1", &request.CreateSessionRequest{Topic: "curhat"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.CloseSession("C1", created.SessionId); err != nil {
		t.Fatalf("first close: %v", err)
	}
	sess, err := f.repos.Session.FindByUuid(created.SessionId)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if sess.Status != session_status_enum.CLOSED || !sess.ClosedAt.Valid || sess.ClosedBy.String != "C1" {
		t.Fatalf("close not recorded: %+v", sess)
	}
	count, _ := f.repos.Message.CountBySessionId(created.SessionId)
	if count != 1 {
		t.Fatalf("expected 1 system message, got %d", count)
	}

	// 重复关闭：幂等成功，不追加第二条系统消息
	if err := f.svc.CloseSession("C1", created.SessionId); err != nil {
		t.Fatalf("second close: %v", err)
	}
	count, _ = f.repos.Message.CountBySessionId(created.SessionId)
	if count != 1 {
		t.Fatalf("second close appended a system message, count=%d", count)
	}
}

func TestClosePrivateSessionPolicy(t *testing.T) {
	f := newFixture(t, openTestDB(t))
	f.seedUser(t, "U1", false)
	f.seedUser(t, "C1", true)
	f.seedUser(t, "C2", true)

	created, err := f.svc.CreateSession("U1", &request.CreateSessionRequest{Topic: "curhat", CompanionId: "C1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 被分配的陪伴者也不能关私聊房间（策略错误）
	if err := f.svc.CloseSession("C1", created.SessionId); errorx.GetCode(err) != errorx.CodePolicyForbidden {
		t.Fatalf("expected policy error for assigned companion, got %v", err)
	}
	// 其他陪伴者同样被拒（未被分配）
	if err := f.svc.CloseSession("C2", created.SessionId); errorx.GetCode(err) != errorx.CodePolicyForbidden {
		t.Fatalf("expected policy error for other companion, got %v", err)
	}
	// 房间仍是 active，没有系统消息
	sess, _ := f.repos.Session.FindByUuid(created.SessionId)
	if sess.Status != session_status_enum.ACTIVE {
		t.Fatalf("private session must stay active, got %s", sess.Status)
	}
}

func TestCloseSessionNotFound(t *testing.T) {
	f := newFixture(t, openTestDB(t))
	f.seedUser(t, "C1", true)

	if err := f.svc.CloseSession("C1", "S-missing"); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteSessionCascade(t *testing.T) {
	f := newFixture(t, openTestDB(t))
	f.seedUser(t, "U1", false)
	f.seedUser(t, "U2", false)

	created, err := f.svc.CreateSession("U1", &request.CreateSessionRequest{Topic: "curhat"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.messageSvc.SendMessage("U1", &request.SendMessageRequest{SessionId: created.SessionId, Text: "halo"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	// 非创建者删除被拒
	if err := f.svc.DeleteSession("U2", created.SessionId); errorx.GetCode(err) != errorx.CodePolicyForbidden {
		t.Fatalf("expected policy error, got %v", err)
	}

	if err := f.svc.DeleteSession("U1", created.SessionId); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.repos.Session.FindByUuid(created.SessionId); !errorx.IsNotFound(err) {
		t.Fatalf("session should be gone, got %v", err)
	}
	count, _ := f.repos.Message.CountBySessionId(created.SessionId)
	if count != 0 {
		t.Fatalf("messages should cascade, got %d", count)
	}
}

// 规约场景：陪伴者发 2 条时未读为 0，用户回 1 条后未读变 1，标记已读后归零
func TestUnreadScenarioWithMarkRead(t *testing.T) {
	f := newFixture(t, openTestDB(t))
	f.seedUser(t, "U1", false)
	f.seedUser(t, "C1", true)

	created, err := f.svc.CreateSession("U1", &request.CreateSessionRequest{Topic: "curhat", CompanionId: "C1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sid := created.SessionId

	unreadOf := func(forCompanion bool) int64 {
		t.Helper()
		sess, err := f.repos.Session.FindByUuid(sid)
		if err != nil {
			t.Fatalf("reload: %v", err)
		}
		n, err := f.messageSvc.ComputeUnreadCount(sess, forCompanion)
		if err != nil {
			t.Fatalf("unread: %v", err)
		}
		return n
	}

	send := func(actor, text string) {
		t.Helper()
		if _, err := f.messageSvc.SendMessage(actor, &request.SendMessageRequest{SessionId: sid, Text: text}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	send("C1", "halo, ada yang bisa dibantu?")
	send("C1", "silakan cerita")
	if n := unreadOf(true); n != 0 {
		t.Fatalf("companion unread before user reply = %d, want 0", n)
	}

	time.Sleep(5 * time.Millisecond) // 保证用户消息的时间戳晚于陪伴者消息
	send("U1", "terima kasih")
	if n := unreadOf(true); n != 1 {
		t.Fatalf("companion unread after user reply = %d, want 1", n)
	}

	time.Sleep(5 * time.Millisecond)
	if err := f.svc.MarkRead("C1", sid); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if n := unreadOf(true); n != 0 {
		t.Fatalf("companion unread after mark read = %d, want 0", n)
	}
}

func TestCompanionSessionListAnonymized(t *testing.T) {
	f := newFixture(t, openTestDB(t))
	f.seedUser(t, "U1", false)
	f.seedUser(t, "C1", true)

	if _, err := f.svc.CreateSession("U1", &request.CreateSessionRequest{Topic: "curhat", CompanionId: "C1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := f.svc.GetCompanionSessionList("C1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 session, got %d", len(list))
	}
	item := list[0]
	if item.AnonNumber < 1 || item.AnonNumber > 999 {
		t.Fatalf("anon number out of range: %d", item.AnonNumber)
	}
	want := fmt.Sprintf("Pengguna %03d", item.AnonNumber)
	if item.AnonLabel != want {
		t.Fatalf("label = %q, want %q", item.AnonLabel, want)
	}

	// 列表触发的分配是幂等的
	again, err := f.svc.GetCompanionSessionList("C1")
	if err != nil {
		t.Fatalf("list again: %v", err)
	}
	if again[0].AnonNumber != item.AnonNumber {
		t.Fatalf("anon number changed between lists: %d -> %d", item.AnonNumber, again[0].AnonNumber)
	}
}

// 旧库没有任何可选列时：创建走降级路径，列表回退全量查询，标记已读静默成功
func TestLegacySchemaDegradation(t *testing.T) {
	f := newFixture(t, openLegacyTestDB(t))
	f.seedUser(t, "U1", false)
	f.seedUser(t, "C1", true)

	created, err := f.svc.CreateSession("U1", &request.CreateSessionRequest{Topic: "curhat", CompanionId: "C1"})
	if err != nil {
		t.Fatalf("degraded create: %v", err)
	}

	list, err := f.svc.GetCompanionSessionList("C1")
	if err != nil {
		t.Fatalf("degraded list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 session, got %d", len(list))
	}
	// 缺列时状态按 active 归一化，房间类型按陪伴者推断
	if list[0].Status != session_status_enum.ACTIVE || list[0].RoomType != room_type_enum.PRIVATE {
		t.Fatalf("unexpected normalized fields: %+v", list[0])
	}

	// 已读列不存在：标记已读静默成功，未读数走回退链
	if err := f.svc.MarkRead("C1", created.SessionId); err != nil {
		t.Fatalf("mark read on legacy schema: %v", err)
	}
	// 能力开关已翻转，第二次直接短路成功
	if err := f.svc.MarkRead("C1", created.SessionId); err != nil {
		t.Fatalf("second mark read: %v", err)
	}

	if _, err := f.messageSvc.SendMessage("U1", &request.SendMessageRequest{SessionId: created.SessionId, Text: "halo"}); err != nil {
		t.Fatalf("send on legacy schema: %v", err)
	}
	sess, err := f.repos.Session.FindByUuid(created.SessionId)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	unread, err := f.messageSvc.ComputeUnreadCount(sess, true)
	if err != nil {
		t.Fatalf("unread on legacy schema: %v", err)
	}
	if unread != 1 {
		t.Fatalf("legacy unread = %d, want 1", unread)
	}
}

// 旧库没有生命周期列时关闭操作不可用：报 400 让运维去迁移，而不是 500 存储故障
func TestCloseSessionLegacySchema(t *testing.T) {
	f := newFixture(t, openLegacyTestDB(t))
	f.seedUser(t, "U1", false)
	f.seedUser(t, "C1", true)

	created, err := f.svc.CreateSession("U1", &request.CreateSessionRequest{Topic: "curhat"})
	if err != nil {
		t.Fatalf("degraded create: %v", err)
	}

	err = f.svc.CloseSession("C1", created.SessionId)
	if err == nil {
		t.Fatal("expected close to fail on legacy schema")
	}
	if code := errorx.GetCode(err); code != errorx.CodeInvalidParam {
		t.Fatalf("code = %d, want %d", code, errorx.CodeInvalidParam)
	}
	if status := errorx.HTTPStatus(errorx.GetCode(err)); status != 400 {
		t.Fatalf("http status = %d, want 400", status)
	}

	// 关闭失败时不能留下半成品系统消息
	msgs, err := f.repos.Message.FindBySessionId(created.SessionId)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected no system message, got %d messages", len(msgs))
	}
}
