package anon

import (
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"safespace_chat_server/internal/dao/mysql/repository"
	"safespace_chat_server/internal/model"
	"safespace_chat_server/pkg/errorx"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var testDBSeq atomic.Int64

// openTestDB 打开独立的内存数据库
// 每个测试一个库名，避免 cache=shared 导致测试间串数据
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:anon_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.UserInfo{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, repos *repository.Repositories, uuid string) {
	t.Helper()
	if err := repos.User.Create(&model.UserInfo{Uuid: uuid, DisplayName: "user-" + uuid}); err != nil {
		t.Fatalf("create user: %v", err)
	}
}

func TestEnsureAnonNumberIdempotent(t *testing.T) {
	repos := repository.NewRepositories(openTestDB(t))
	svc := NewService(repos)
	createUser(t, repos, "U1")

	first, err := svc.EnsureAnonNumber("U1")
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if first < 1 || first > 999 {
		t.Fatalf("number out of range: %d", first)
	}

	second, err := svc.EnsureAnonNumber("U1")
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if second != first {
		t.Fatalf("not idempotent: first=%d second=%d", first, second)
	}
}

func TestEnsureAnonNumberDistinct(t *testing.T) {
	repos := repository.NewRepositories(openTestDB(t))
	svc := NewService(repos)

	assigned := make(map[int]string)
	for i := 0; i < 50; i++ {
		uuid := fmt.Sprintf("U%d", i)
		createUser(t, repos, uuid)
		n, err := svc.EnsureAnonNumber(uuid)
		if err != nil {
			t.Fatalf("ensure %s: %v", uuid, err)
		}
		if holder, dup := assigned[n]; dup {
			t.Fatalf("number %d assigned to both %s and %s", n, holder, uuid)
		}
		assigned[n] = uuid
	}
}

// 多个用户同时首次分配：每人拿到一个编号，且两两不同
// 唯一索引 + 条件更新 + 冲突后重读兜底这条不变量
func TestEnsureAnonNumberConcurrentAssignment(t *testing.T) {
	repos := repository.NewRepositories(openTestDB(t))
	svc := NewService(repos)

	const workers = 16
	for i := 0; i < workers; i++ {
		createUser(t, repos, fmt.Sprintf("U%02d", i))
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		assigned = make(map[int]string, workers)
	)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			uuid := fmt.Sprintf("U%02d", i)
			n, err := svc.EnsureAnonNumber(uuid)
			if err != nil {
				errs[i] = err
				return
			}
			if n < 1 || n > 999 {
				errs[i] = fmt.Errorf("number out of range: %d", n)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if holder, dup := assigned[n]; dup {
				errs[i] = fmt.Errorf("number %d assigned to both %s and %s", n, holder, uuid)
				return
			}
			assigned[n] = uuid
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("worker %d: %v", i, err)
		}
	}
	if len(assigned) != workers {
		t.Fatalf("assigned %d distinct numbers, want %d", len(assigned), workers)
	}
}

// 候选编号被别的用户抢占后必须换候选重试，而不是把冲突透传出去
func TestEnsureAnonNumberConflictRecovery(t *testing.T) {
	repos := repository.NewRepositories(openTestDB(t))
	svc := NewService(repos)
	createUser(t, repos, "U1")
	createUser(t, repos, "U2")

	if err := repos.User.AssignAnonNumber("U1", 42); err != nil {
		t.Fatalf("preassign: %v", err)
	}
	// 相同编号的直接写入必须失败（唯一索引兜底）
	if err := repos.User.AssignAnonNumber("U2", 42); err == nil {
		t.Fatal("expected duplicate assign to fail")
	}

	n, err := svc.EnsureAnonNumber("U2")
	if err != nil {
		t.Fatalf("ensure after conflict: %v", err)
	}
	if n == 42 {
		t.Fatal("U2 must not share U1's number")
	}
}

// 编号池耗尽：有限次尝试后返回错误，不能无限阻塞也不能 panic
func TestEnsureAnonNumberExhaustion(t *testing.T) {
	db := openTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewService(repos)

	users := make([]model.UserInfo, 0, 999)
	for n := 1; n <= 999; n++ {
		users = append(users, model.UserInfo{
			Uuid:        fmt.Sprintf("F%03d", n),
			DisplayName: "filler",
			AnonNumber:  sql.NullInt32{Int32: int32(n), Valid: true},
		})
	}
	if err := db.CreateInBatches(users, 200).Error; err != nil {
		t.Fatalf("prefill: %v", err)
	}

	createUser(t, repos, "U1000")
	if _, err := svc.EnsureAnonNumber("U1000"); err == nil {
		t.Fatal("expected exhaustion error")
	} else if errorx.GetCode(err) != errorx.CodeServerBusy {
		t.Fatalf("unexpected code: %d", errorx.GetCode(err))
	}
}

func TestFormatAnonLabel(t *testing.T) {
	svc := NewService(nil)

	cases := []struct {
		n    int
		want string
	}{
		{42, "Pengguna 042"},
		{7, "Pengguna 007"},
		{999, "Pengguna 999"},
		{0, "Pengguna ---"},
		{-3, "Pengguna ---"},
	}
	for _, tc := range cases {
		if got := svc.FormatAnonLabel(tc.n); got != tc.want {
			t.Errorf("FormatAnonLabel(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
