package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	studentserrors "github.com/MuhammadFeyaz/go2koereskole/internal/students/errors"
	"github.com/MuhammadFeyaz/go2koereskole/internal/students/validator"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/config"
	mongotx "github.com/MuhammadFeyaz/go2koereskole/pkg/db/mongo"
	apperrors "github.com/MuhammadFeyaz/go2koereskole/pkg/errors"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/logger"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/model"
)

type memStudentRepo struct {
	mu       sync.Mutex
	seq      int
	students map[string]*model.Student
}

func newMemStudentRepo() *memStudentRepo {
	return &memStudentRepo{students: make(map[string]*model.Student)}
}

func (r *memStudentRepo) Create(_ context.Context, student *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.Email == student.Email {
			return studentserrors.ErrEmailExists
		}
	}
	r.seq++
	student.ID = fmt.Sprintf("student-%03d", r.seq)
	clone := *student
	r.students[student.ID] = &clone
	return nil
}

func (r *memStudentRepo) FindByID(_ context.Context, id string) (*model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[id]
	if !ok {
		return nil, studentserrors.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *memStudentRepo) FindByEmail(_ context.Context, email string) (*model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.Email == email {
			clone := *s
			return &clone, nil
		}
	}
	return nil, studentserrors.ErrNotFound
}

func (r *memStudentRepo) FindAll(_ context.Context, limit int, offset int64) ([]*model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Student
	for _, s := range r.students {
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memStudentRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.students)), nil
}

func (r *memStudentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[id]; !ok {
		return studentserrors.ErrNotFound
	}
	delete(r.students, id)
	return nil
}

func (r *memStudentRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

// fakeBookingRepo only tracks cascade deletes; the students service never
// touches the other booking operations.
type fakeBookingRepo struct {
	deletedStudents []string
	deleteCount     int64
}

func (r *fakeBookingRepo) Create(context.Context, *model.Booking) error { return nil }

func (r *fakeBookingRepo) FindByID(context.Context, string) (*model.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) FindAll(context.Context, int, int64) ([]*model.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) FindActive(context.Context) ([]*model.Booking, error) { return nil, nil }

func (r *fakeBookingRepo) FindByStudent(context.Context, string, int, int64) ([]*model.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) Count(context.Context) (int64, error) { return 0, nil }

func (r *fakeBookingRepo) CountByStudent(context.Context, string) (int64, error) { return 0, nil }

func (r *fakeBookingRepo) UpdateStatus(context.Context, string, string) error { return nil }

func (r *fakeBookingRepo) DeleteByStudent(_ context.Context, studentID string) (int64, error) {
	r.deletedStudents = append(r.deletedStudents, studentID)
	return r.deleteCount, nil
}

func (r *fakeBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

type fixture struct {
	service     StudentService
	repo        *memStudentRepo
	bookingRepo *fakeBookingRepo
}

func newFixture() *fixture {
	cfg := &config.Config{
		Log: logger.New(logger.Config{Output: io.Discard, Level: logger.ERROR}),
	}
	repo := newMemStudentRepo()
	bookingRepo := &fakeBookingRepo{deleteCount: 2}
	studentValidator := validator.NewStudentValidator(cfg.Log)

	return &fixture{
		service:     NewStudentService(repo, bookingRepo, studentValidator, cfg),
		repo:        repo,
		bookingRepo: bookingRepo,
	}
}

func newStudent(name, email string) *model.Student {
	return &model.Student{
		Name:     name,
		Email:    email,
		Phone:    "+45 20 12 34 56",
		Password: "hunter2-secret",
	}
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

func TestCreateHashesPassword(t *testing.T) {
	f := newFixture()

	s := newStudent("Mette Jensen", "mette@example.com")
	if err := f.service.Create(context.Background(), s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if s.Password != "" {
		t.Error("plaintext password survived Create()")
	}
	if s.PasswordHash == "" {
		t.Fatal("Create() stored no password hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte("hunter2-secret")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestCreateNormalizesEmail(t *testing.T) {
	f := newFixture()

	s := newStudent("Mette Jensen", "  METTE@Example.com ")
	if err := f.service.Create(context.Background(), s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.Email != "mette@example.com" {
		t.Errorf("Email = %q, want normalized lowercase", s.Email)
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if err := f.service.Create(ctx, newStudent("Mette Jensen", "mette@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := f.service.Create(ctx, newStudent("Another Mette", "mette@example.com"))
	assertCode(t, err, apperrors.CodeConflict)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(s *model.Student)
	}{
		{"missing name", func(s *model.Student) { s.Name = "" }},
		{"missing email", func(s *model.Student) { s.Email = "" }},
		{"bad email", func(s *model.Student) { s.Email = "not-an-email" }},
		{"missing phone", func(s *model.Student) { s.Phone = "" }},
		{"missing password", func(s *model.Student) { s.Password = "" }},
		{"short password", func(s *model.Student) { s.Password = "short" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStudent("Mette Jensen", "mette@example.com")
			tt.mutate(s)
			err := f.service.Create(ctx, s)
			assertCode(t, err, apperrors.CodeValidation)
		})
	}
}

func TestDeleteCascadesBookings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	s := newStudent("Mette Jensen", "mette@example.com")
	if err := f.service.Create(ctx, s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := f.service.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := f.repo.FindByID(ctx, s.ID); err != studentserrors.ErrNotFound {
		t.Errorf("student still present after Delete(): %v", err)
	}
	if len(f.bookingRepo.deletedStudents) != 1 || f.bookingRepo.deletedStudents[0] != s.ID {
		t.Errorf("cascade deletes = %v, want [%s]", f.bookingRepo.deletedStudents, s.ID)
	}
}

func TestDeleteNotFound(t *testing.T) {
	f := newFixture()

	err := f.service.Delete(context.Background(), "missing-id")
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestGetByEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	s := newStudent("Mette Jensen", "mette@example.com")
	if err := f.service.Create(ctx, s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := f.service.GetByEmail(ctx, "METTE@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != s.ID {
		t.Errorf("ID = %s, want %s", got.ID, s.ID)
	}

	_, err = f.service.GetByEmail(ctx, "nobody@example.com")
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestGetAll(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if err := f.service.Create(ctx, newStudent("Mette Jensen", "mette@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := f.service.Create(ctx, newStudent("Lars Nielsen", "lars@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	students, total, err := f.service.GetAll(ctx, 100, 0)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if total != 2 || len(students) != 2 {
		t.Errorf("GetAll() = %d items, total %d, want 2/2", len(students), total)
	}
}
