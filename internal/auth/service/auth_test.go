package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MuhammadFeyaz/go2koereskole/internal/auth/repository"
	studentserrors "github.com/MuhammadFeyaz/go2koereskole/internal/students/errors"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/config"
	mongotx "github.com/MuhammadFeyaz/go2koereskole/pkg/db/mongo"
	apperrors "github.com/MuhammadFeyaz/go2koereskole/pkg/errors"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/logger"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/model"
)

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*model.Session)}
}

func (r *memSessionRepo) Create(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *session
	r.sessions[session.Token] = &clone
	return nil
}

func (r *memSessionRepo) FindByToken(_ context.Context, token string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok || !s.ExpiresAt.After(time.Now()) {
		return nil, repository.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *memSessionRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

// fakeStudentRepo serves FindByEmail from a fixed map; the other methods are
// not exercised by the auth flow.
type fakeStudentRepo struct {
	byEmail map[string]*model.Student
}

func (r *fakeStudentRepo) Create(context.Context, *model.Student) error { return nil }

func (r *fakeStudentRepo) FindByID(context.Context, string) (*model.Student, error) {
	return nil, studentserrors.ErrNotFound
}

func (r *fakeStudentRepo) FindByEmail(_ context.Context, email string) (*model.Student, error) {
	s, ok := r.byEmail[email]
	if !ok {
		return nil, studentserrors.ErrNotFound
	}
	return s, nil
}

func (r *fakeStudentRepo) FindAll(context.Context, int, int64) ([]*model.Student, error) {
	return nil, nil
}

func (r *fakeStudentRepo) Count(context.Context) (int64, error) { return 0, nil }

func (r *fakeStudentRepo) Delete(context.Context, string) error { return nil }

func (r *fakeStudentRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func newTestAuth(t *testing.T) (AuthService, *memSessionRepo) {
	t.Helper()
	cfg := &config.Config{
		Log:           logger.New(logger.Config{Output: io.Discard, Level: logger.ERROR}),
		AdminEmail:    "admin@go2koereskole.dk",
		AdminPassword: "admin-secret",
		SessionTTL:    time.Hour,
	}
	sessions := newMemSessionRepo()
	students := &fakeStudentRepo{byEmail: map[string]*model.Student{
		"mette@example.com": {
			ID:           "student-1",
			Name:         "Mette Jensen",
			Email:        "mette@example.com",
			PasswordHash: hash(t, "hunter2"),
		},
	}}
	return NewAuthService(sessions, students, cfg), sessions
}

func assertCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", wantCode)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != wantCode {
		t.Fatalf("error code = %s, want %s (err: %v)", appErr.Code, wantCode, err)
	}
}

func TestLoginAdmin(t *testing.T) {
	auth, _ := newTestAuth(t)

	user, token, err := auth.Login(context.Background(), "admin@go2koereskole.dk", "admin-secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("Role = %s, want admin", user.Role)
	}
	if token == "" {
		t.Error("Login() returned empty token")
	}
}

func TestLoginStudent(t *testing.T) {
	auth, _ := newTestAuth(t)

	user, token, err := auth.Login(context.Background(), "mette@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.Role != model.RoleStudent {
		t.Errorf("Role = %s, want student", user.Role)
	}
	if user.ID != "student-1" {
		t.Errorf("ID = %s, want student-1", user.ID)
	}
	if token == "" {
		t.Error("Login() returned empty token")
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	auth, _ := newTestAuth(t)

	if _, _, err := auth.Login(context.Background(), "  METTE@Example.com ", "hunter2"); err != nil {
		t.Fatalf("Login() with unnormalized email error = %v", err)
	}
}

func TestLoginRejections(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "hunter2"},
		{"wrong student password", "mette@example.com", "wrong"},
		{"wrong admin password", "admin@go2koereskole.dk", "wrong"},
		{"empty password", "mette@example.com", ""},
		{"empty email", "", "hunter2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := auth.Login(ctx, tt.email, tt.password)
			assertCode(t, err, apperrors.CodeInvalidLogin)
		})
	}
}

func TestResolve(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	_, token, err := auth.Login(ctx, "mette@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	user, err := auth.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if user.ID != "student-1" || user.Role != model.RoleStudent {
		t.Errorf("Resolve() = %+v, want student-1/student", user)
	}
}

func TestResolveRejectsUnknownToken(t *testing.T) {
	auth, _ := newTestAuth(t)

	_, err := auth.Resolve(context.Background(), "no-such-token")
	assertCode(t, err, apperrors.CodeUnauthorized)

	_, err = auth.Resolve(context.Background(), "")
	assertCode(t, err, apperrors.CodeUnauthorized)
}

func TestResolveRejectsExpiredSession(t *testing.T) {
	auth, sessions := newTestAuth(t)
	ctx := context.Background()

	_, token, err := auth.Login(ctx, "mette@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	sessions.mu.Lock()
	sessions.sessions[token].ExpiresAt = time.Now().Add(-time.Minute)
	sessions.mu.Unlock()

	_, err = auth.Resolve(ctx, token)
	assertCode(t, err, apperrors.CodeUnauthorized)
}

func TestLogout(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	_, token, err := auth.Login(ctx, "mette@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := auth.Logout(ctx, token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	_, err = auth.Resolve(ctx, token)
	assertCode(t, err, apperrors.CodeUnauthorized)

	// Logging out with no token is a no-op.
	if err := auth.Logout(ctx, ""); err != nil {
		t.Fatalf("Logout(\"\") error = %v", err)
	}
}
