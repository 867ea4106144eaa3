package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	bookingsrepo "github.com/MuhammadFeyaz/go2koereskole/internal/bookings/repository"
	studentserrors "github.com/MuhammadFeyaz/go2koereskole/internal/students/errors"
	"github.com/MuhammadFeyaz/go2koereskole/internal/students/repository"
	"github.com/MuhammadFeyaz/go2koereskole/internal/students/validator"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/config"
	apperrors "github.com/MuhammadFeyaz/go2koereskole/pkg/errors"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/model"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/sanitizer"
)

type StudentService interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Student, int64, error)
	Delete(ctx context.Context, id string) error
}

type studentService struct {
	repo        repository.StudentRepository
	bookingRepo bookingsrepo.BookingRepository
	validator   *validator.StudentValidator
	cfg         *config.Config
}

func NewStudentService(
	repo repository.StudentRepository,
	bookingRepo bookingsrepo.BookingRepository,
	studentValidator *validator.StudentValidator,
	cfg *config.Config,
) StudentService {
	return &studentService{
		repo:        repo,
		bookingRepo: bookingRepo,
		validator:   studentValidator,
		cfg:         cfg,
	}
}

// Create registers a new student account (admin action). The plaintext
// password is hashed with bcrypt and dropped before the record is stored.
func (s *studentService) Create(ctx context.Context, student *model.Student) error {
	s.sanitize(student)

	if err := s.validator.ValidateCreate(student); err != nil {
		s.cfg.Log.Warn("Student validation failed", "error", err)
		return apperrors.Validation("Student validation failed", map[string]any{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(student.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Failed to hash password", err)
	}
	student.PasswordHash = string(hash)
	student.Password = ""

	if err := s.repo.Create(ctx, student); err != nil {
		if errors.Is(err, studentserrors.ErrEmailExists) {
			return apperrors.Conflict("A student with this email already exists").WithDetails(map[string]any{
				"email": student.Email,
			})
		}
		return apperrors.Internal("Failed to create student", err)
	}

	s.cfg.Log.Info("Student created", "id", student.ID, "email", student.Email)
	return nil
}

func (s *studentService) GetByID(ctx context.Context, id string) (*model.Student, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Student ID cannot be empty")
	}

	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	return student, nil
}

func (s *studentService) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.InvalidInput("Email cannot be empty")
	}

	student, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, studentserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Student")
		}
		return nil, apperrors.Internal("Failed to retrieve student", err)
	}
	return student, nil
}

func (s *studentService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Student, int64, error) {
	var count int64
	var students []*model.Student
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count students", "error", errCount)
			errCount = apperrors.Internal("Failed to count students", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		students, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list students", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve students", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return students, count, nil
}

// Delete removes a student and all of their bookings in one transaction, so
// the calendar never holds bookings for an account that no longer exists.
func (s *studentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Student ID cannot be empty")
	}

	var removedBookings int64
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, id); err != nil {
			return s.mapRepoError(err, id)
		}

		n, err := s.bookingRepo.DeleteByStudent(txCtx, id)
		if err != nil {
			return apperrors.Internal("Failed to delete student bookings", err)
		}
		removedBookings = n
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Student deleted", "id", id, "removed_bookings", removedBookings)
	return nil
}

func (s *studentService) sanitize(student *model.Student) {
	student.Name = sanitizer.NormalizeName(student.Name)
	student.Email = sanitizer.NormalizeEmail(student.Email)
	student.Phone = sanitizer.NormalizePhone(student.Phone)
}

func (s *studentService) mapRepoError(err error, id string) error {
	if errors.Is(err, studentserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Student", id)
	}
	if errors.Is(err, studentserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid student ID format")
	}
	return apperrors.Internal("Failed to access student", err)
}
