package auth

import (
	"fmt"
	"sync/atomic"
	"testing"

	"safespace_chat_server/internal/dao/mysql/repository"
	"safespace_chat_server/internal/model"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var testDBSeq atomic.Int64

// openTestDB 打开独立的内存数据库
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.UserInfo{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// stubAnon 测试用匿名编号分配桩
type stubAnon struct{}

func (stubAnon) EnsureAnonNumber(userId string) (int, error) { return 7, nil }

func TestListCompanions(t *testing.T) {
	repos := repository.NewRepositories(openTestDB(t))
	svc := NewService(repos, stubAnon{})

	seed := []model.UserInfo{
		{Uuid: "C1", DisplayName: "Dewi", IsCompanion: true, PasswordHash: "$2a$10$hash"},
		{Uuid: "C2", DisplayName: "Rani", IsCompanion: true, PasswordHash: "$2a$10$hash"},
		{Uuid: "U1", DisplayName: "Budi", InviteCode: "SAFESPACE2025"},
	}
	for i := range seed {
		if err := repos.User.Create(&seed[i]); err != nil {
			t.Fatalf("seed user %s: %v", seed[i].Uuid, err)
		}
	}

	list, err := svc.ListCompanions()
	if err != nil {
		t.Fatalf("list companions: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(list), list)
	}
	got := make(map[string]string, len(list))
	for _, c := range list {
		got[c.CompanionId] = c.DisplayName
	}
	if got["C1"] != "Dewi" || got["C2"] != "Rani" {
		t.Fatalf("wrong directory entries: %v", got)
	}
	if _, leaked := got["U1"]; leaked {
		t.Fatalf("regular user leaked into companion directory")
	}
}

func TestListCompanionsEmpty(t *testing.T) {
	repos := repository.NewRepositories(openTestDB(t))
	svc := NewService(repos, stubAnon{})

	list, err := svc.ListCompanions()
	if err != nil {
		t.Fatalf("list companions: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("got %d entries, want empty list", len(list))
	}
}
