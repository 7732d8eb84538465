package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"safespace_chat_server/internal/dto/request"
	"safespace_chat_server/internal/handler"
	"safespace_chat_server/internal/dto/respond"
	"safespace_chat_server/internal/infrastructure/middleware"
	"safespace_chat_server/internal/model"
	"safespace_chat_server/internal/router"
	"safespace_chat_server/internal/service"
	"safespace_chat_server/pkg/errorx"
	"safespace_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// ==================== Service 桩实现 ====================

type stubAuthService struct{}

func (stubAuthService) Login(req *request.LoginRequest) (*respond.LoginRespond, error) {
	return &respond.LoginRespond{UserId: "U1", DisplayName: req.DisplayName, AnonNumber: 42}, nil
}
func (stubAuthService) CompanionLogin(req *request.CompanionLoginRequest) (*respond.LoginRespond, error) {
	return &respond.LoginRespond{UserId: "C1", DisplayName: req.Username, IsCompanion: true}, nil
}
func (stubAuthService) Me(userId string) (*respond.LoginRespond, error) {
	return &respond.LoginRespond{UserId: userId}, nil
}
func (stubAuthService) ListCompanions() ([]respond.CompanionRespond, error) {
	return []respond.CompanionRespond{{CompanionId: "C1", DisplayName: "Dewi"}}, nil
}

type stubSessionService struct {
	closeErr  error
	userLists int
	compLists int
}

func (s *stubSessionService) CreateSession(userId string, req *request.CreateSessionRequest) (*respond.CreateSessionRespond, error) {
	return &respond.CreateSessionRespond{SessionId: "S1", Topic: req.Topic}, nil
}
func (s *stubSessionService) GetUserSessionList(userId string) ([]respond.UserSessionListRespond, error) {
	s.userLists++
	return []respond.UserSessionListRespond{{SessionId: "S1", Topic: "curhat"}}, nil
}
func (s *stubSessionService) GetCompanionSessionList(companionId string) ([]respond.CompanionSessionListRespond, error) {
	s.compLists++
	return []respond.CompanionSessionListRespond{{SessionId: "S1", AnonLabel: "Pengguna 042"}}, nil
}
func (s *stubSessionService) CloseSession(companionId, sessionId string) error { return s.closeErr }
func (s *stubSessionService) DeleteSession(userId, sessionId string) error     { return nil }
func (s *stubSessionService) MarkRead(companionId, sessionId string) error     { return nil }

type stubMessageService struct{}

func (stubMessageService) GetMessageList(req *request.GetMessageListRequest) (*respond.GetMessageListRespond, error) {
	return &respond.GetMessageListRespond{Messages: []respond.MessageRespond{}}, nil
}
func (stubMessageService) SendMessage(actorId string, req *request.SendMessageRequest) (*respond.SendMessageRespond, error) {
	return &respond.SendMessageRespond{Message: respond.MessageRespond{MessageId: "m1", Text: req.Text}}, nil
}
func (stubMessageService) AppendSystemMessage(sessionId, text string) error { return nil }
func (stubMessageService) ComputeUnreadCount(session *model.ChatSession, forCompanion bool) (int64, error) {
	return 0, nil
}
func (stubMessageService) LastMessagePreview(sessionId string) (string, string, error) {
	return "", "", nil
}

type stubJournalService struct{}

func (stubJournalService) CreateEntry(userId string, req *request.CreateJournalRequest) (*respond.JournalRespond, error) {
	return &respond.JournalRespond{EntryId: "J1", Content: req.Content}, nil
}
func (stubJournalService) GetEntryList(userId string) ([]respond.JournalRespond, error) {
	return nil, nil
}
func (stubJournalService) DeleteEntry(userId, entryId string) error { return nil }

type stubMoodService struct{}

func (stubMoodService) CreateEntry(userId string, req *request.CreateMoodRequest) (*respond.MoodRespond, error) {
	return &respond.MoodRespond{Mood: req.Mood}, nil
}
func (stubMoodService) GetRecentEntries(userId string) ([]respond.MoodRespond, error) {
	return nil, nil
}

type stubAnonService struct{}

func (stubAnonService) EnsureAnonNumber(userId string) (int, error) { return 42, nil }
func (stubAnonService) FormatAnonLabel(n int) string                { return "Pengguna 042" }

// ==================== 测试脚手架 ====================

func newTestEngine(t *testing.T, sessionSvc *stubSessionService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt.Init("test-secret-test-secret-test-1234", 1)
	if err := handler.InitTrans("id"); err != nil {
		t.Fatalf("init trans: %v", err)
	}

	handlers := handler.NewHandlers(&service.Services{
		Anon:    stubAnonService{},
		Auth:    stubAuthService{},
		Session: sessionSvc,
		Message: stubMessageService{},
		Journal: stubJournalService{},
		Mood:    stubMoodService{},
	})

	engine := gin.New()
	router.NewRouter(handlers).RegisterRoutes(engine)
	return engine
}

func authedRequest(t *testing.T, method, path, body string, asCompanion bool) *http.Request {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	cookieName := middleware.UserCookieName
	actorId := "U1"
	if asCompanion {
		cookieName = middleware.CompanionCookieName
		actorId = "C1"
	}
	token, err := jwt.GenerateToken(actorId, "tester", asCompanion)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	return req
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) handler.ResponseData {
	t.Helper()
	var data handler.ResponseData
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return data
}

// ==================== 用例 ====================

func TestUnauthenticatedRequestRejected(t *testing.T) {
	engine := newTestEngine(t, &stubSessionService{})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestSessionListBranchesByRole(t *testing.T) {
	sessionSvc := &stubSessionService{}
	engine := newTestEngine(t, sessionSvc)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/sessions", "", false))
	if rec.Code != http.StatusOK {
		t.Fatalf("user list status = %d, body=%s", rec.Code, rec.Body.String())
	}
	if sessionSvc.userLists != 1 || sessionSvc.compLists != 0 {
		t.Fatalf("wrong branch: user=%d companion=%d", sessionSvc.userLists, sessionSvc.compLists)
	}

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/sessions", "", true))
	if sessionSvc.compLists != 1 {
		t.Fatalf("companion branch not taken")
	}
	// 陪伴者视图只含匿名标签
	if !strings.Contains(rec.Body.String(), "Pengguna 042") {
		t.Fatalf("anon label missing: %s", rec.Body.String())
	}
}

func TestCompanionRouteRejectsUserRole(t *testing.T) {
	engine := newTestEngine(t, &stubSessionService{})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/companion/close", `{"sessionId":"S1"}`, false))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestPolicyErrorMapsTo403(t *testing.T) {
	sessionSvc := &stubSessionService{
		closeErr: errorx.New(errorx.CodePolicyForbidden, "Ruang pribadi tidak dapat ditutup"),
	}
	engine := newTestEngine(t, sessionSvc)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/companion/close", `{"sessionId":"S1"}`, true))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != errorx.CodePolicyForbidden {
		t.Fatalf("envelope code = %d, want %d", env.Code, errorx.CodePolicyForbidden)
	}
}

func TestValidationErrorMapsTo400(t *testing.T) {
	engine := newTestEngine(t, &stubSessionService{})

	// 缺少必填的 text 字段
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/messages", `{"sessionId":"S1"}`, false))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != errorx.CodeInvalidParam {
		t.Fatalf("envelope code = %d, want %d", env.Code, errorx.CodeInvalidParam)
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	engine := newTestEngine(t, &stubSessionService{})

	body := `{"inviteCode":"SAFESPACE2025","displayName":"Budi"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rec.Code, rec.Body.String())
	}
	var hasCookie bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.UserCookieName && cookie.Value != "" {
			hasCookie = true
		}
	}
	if !hasCookie {
		t.Fatalf("session cookie not set: %v", rec.Header().Values("Set-Cookie"))
	}
}

func TestCompanionDirectoryRequiresAuth(t *testing.T) {
	engine := newTestEngine(t, &stubSessionService{})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companions", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/companions", "", false))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Dewi") {
		t.Fatalf("directory entry missing: %s", rec.Body.String())
	}
}

func TestSuccessEnvelope(t *testing.T) {
	engine := newTestEngine(t, &stubSessionService{})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/messages?sessionId=S1", "", false))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != errorx.CodeSuccess {
		t.Fatalf("envelope code = %d, want %d", env.Code, errorx.CodeSuccess)
	}
}
