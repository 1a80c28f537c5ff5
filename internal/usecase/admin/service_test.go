package admin

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/audit"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httperr"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

// fakeRepo is an in-memory roster keyed by user id.
type fakeRepo struct {
	admins map[int64]*models.Admin
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{admins: make(map[int64]*models.Admin)}
}

func (r *fakeRepo) GetByUserID(_ context.Context, userID int64) (*models.Admin, error) {
	a, ok := r.admins[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *fakeRepo) List(_ context.Context) ([]models.Admin, error) {
	out := make([]models.Admin, 0, len(r.admins))
	for _, a := range r.admins {
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeRepo) Create(_ context.Context, a *models.Admin) error {
	if _, exists := r.admins[a.UserID]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.admins[a.UserID] = a
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, userID int64) (bool, error) {
	if _, ok := r.admins[userID]; !ok {
		return false, nil
	}
	delete(r.admins, userID)
	return true, nil
}

func (r *fakeRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, a := range r.admins {
		if a.Role == role {
			n++
		}
	}
	return n, nil
}

func newTestService(t *testing.T, repo *fakeRepo) *Service {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file:admin_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := gdb.AutoMigrate(&models.EventLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	dispatcher := audit.NewDispatcher(audit.New(gdb), zap.NewNop())
	return NewService(repo, nil, dispatcher, zap.NewNop(), "test-secret")
}

func seedAdmin(repo *fakeRepo, userID int64, role, password string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	repo.admins[userID] = &models.Admin{
		UserID:       userID,
		Role:         role,
		PasswordHash: string(hash),
	}
}

func TestLoginAndParseToken(t *testing.T) {
	repo := newFakeRepo()
	seedAdmin(repo, 100, models.RoleSuperAdmin, "secret")
	svc := newTestService(t, repo)

	token, err := svc.Login(context.Background(), 100, "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 100 || claims.Role != models.RoleSuperAdmin {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeRepo()
	seedAdmin(repo, 100, models.RoleModerator, "secret")
	svc := newTestService(t, repo)

	if _, err := svc.Login(context.Background(), 100, "wrong"); !httperr.IsBusiness(err, httperr.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	if _, err := svc.Login(context.Background(), 200, "secret"); !httperr.IsBusiness(err, httperr.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for unknown user, got %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	svc := newTestService(t, newFakeRepo())
	if _, err := svc.ParseToken("not.a.token"); !httperr.IsBusiness(err, httperr.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestRemove_LastSuperAdminProtected(t *testing.T) {
	repo := newFakeRepo()
	seedAdmin(repo, 100, models.RoleSuperAdmin, "secret")
	seedAdmin(repo, 200, models.RoleModerator, "secret")
	svc := newTestService(t, repo)

	if err := svc.Remove(context.Background(), 100, 100); !httperr.IsBusiness(err, httperr.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN removing the last super admin, got %v", err)
	}

	if err := svc.Remove(context.Background(), 100, 200); err != nil {
		t.Fatalf("removing a moderator: %v", err)
	}
	if _, ok := repo.admins[200]; ok {
		t.Fatal("moderator still present")
	}
}

func TestRemove_RequiresSuperAdmin(t *testing.T) {
	repo := newFakeRepo()
	seedAdmin(repo, 100, models.RoleSuperAdmin, "secret")
	seedAdmin(repo, 200, models.RoleModerator, "secret")
	svc := newTestService(t, repo)

	if err := svc.Remove(context.Background(), 200, 100); !httperr.IsBusiness(err, httperr.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for moderator actor, got %v", err)
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role string
		perm string
		want bool
	}{
		{models.RoleSuperAdmin, PermManageAdmins, true},
		{models.RoleSuperAdmin, PermRunHousekeeping, true},
		{models.RoleModerator, PermBlockSlots, true},
		{models.RoleModerator, PermManageAdmins, false},
		{models.RoleModerator, PermRunHousekeeping, false},
		{"unknown", PermBlockSlots, false},
	}

	for _, tt := range tests {
		if got := HasPermission(tt.role, tt.perm); got != tt.want {
			t.Fatalf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestEnsureSeedAdmins(t *testing.T) {
	repo := newFakeRepo()
	seedAdmin(repo, 100, models.RoleSuperAdmin, "secret")

	if err := EnsureSeedAdmins(context.Background(), repo, []int64{100, 300}, zap.NewNop()); err != nil {
		t.Fatalf("EnsureSeedAdmins: %v", err)
	}

	if len(repo.admins) != 2 {
		t.Fatalf("roster size = %d, want 2", len(repo.admins))
	}
	if repo.admins[300].Role != models.RoleSuperAdmin {
		t.Fatalf("seeded role = %q", repo.admins[300].Role)
	}
	// Existing rows are untouched.
	if repo.admins[100].PasswordHash == "" {
		t.Fatal("existing admin overwritten")
	}
}
