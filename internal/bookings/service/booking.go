package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MuhammadFeyaz/go2koereskole/internal/bookings/conflict"
	bookingserrors "github.com/MuhammadFeyaz/go2koereskole/internal/bookings/errors"
	"github.com/MuhammadFeyaz/go2koereskole/internal/bookings/events"
	"github.com/MuhammadFeyaz/go2koereskole/internal/bookings/repository"
	"github.com/MuhammadFeyaz/go2koereskole/internal/bookings/validator"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/config"
	apperrors "github.com/MuhammadFeyaz/go2koereskole/pkg/errors"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/model"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/sanitizer"
)

// The school runs a single shared calendar, so every admission (create or
// approve) is serialized behind one advisory lock. The lock auto-expires in
// case a request dies between acquire and release.
const (
	admissionLockID  = "bookings_admission"
	admissionLockTTL = 10 * time.Second
)

const (
	msgCreateConflict  = "Tiden overlapper med en anden booking. Vælg et andet tidspunkt."
	msgApproveConflict = "Kan ikke godkende: tiden overlapper med en anden booking."
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	ListByStudent(ctx context.Context, studentID string, limit int, offset int64) ([]*model.Booking, int64, error)
	Approve(ctx context.Context, id string) (*model.Booking, error)
	Deny(ctx context.Context, id string) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.AdmissionLockRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.AdmissionLockRepository,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: bookingValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create admits a new booking request. The conflict scan and the insert run
// as one unit: admission lock first, then a transaction around read-check-
// write, so two concurrent requests can never both pass the check against a
// stale snapshot.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	release, err := s.acquireAdmissionLock(ctx)
	if err != nil {
		return err
	}
	defer release()

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		active, err := s.repo.FindActive(txCtx)
		if err != nil {
			return apperrors.Internal("Failed to read active bookings", err)
		}

		if hit := conflict.FirstConflict(booking, active); hit != nil {
			return apperrors.TimeTaken(msgCreateConflict).WithDetails(map[string]any{
				"conflicting_booking_id": hit.ID,
				"date":                   hit.Date,
				"start_time":             hit.StartTime,
			})
		}

		if err := s.repo.Create(txCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Warn("Booking admission rejected",
			"student_id", booking.StudentID,
			"date", booking.Date,
			"start_time", booking.StartTime,
			"error", err,
		)
		return err
	}

	s.publish(ctx, events.TypeCreated, booking)
	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"student_id", booking.StudentID,
		"date", booking.Date,
		"start_time", booking.StartTime,
		"duration_min", booking.DurationMin,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	return s.findBooking(ctx, id)
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) ListByStudent(ctx context.Context, studentID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if studentID == "" {
		return nil, 0, apperrors.InvalidInput("Student ID cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByStudent(ctx, studentID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count student bookings", "student_id", studentID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByStudent(ctx, studentID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list student bookings", "student_id", studentID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// Approve transitions a pending booking to APPROVED, re-running the conflict
// check as if the booking were already approved. The booking is never
// compared against itself; the resolver excludes rows sharing its ID.
// Approving an already approved booking is a no-op; a denied booking stays
// inert and cannot be resurrected.
func (s *bookingService) Approve(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == model.StatusDenied {
		return nil, apperrors.InvalidInput("Denied bookings cannot be approved")
	}
	if existing.Status == model.StatusApproved {
		return existing, nil
	}

	release, err := s.acquireAdmissionLock(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var approved *model.Booking
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		// Re-read inside the transaction; the pre-check above ran unlocked.
		current, err := s.findBooking(txCtx, id)
		if err != nil {
			return err
		}
		if current.Status == model.StatusDenied {
			return apperrors.InvalidInput("Denied bookings cannot be approved")
		}

		candidate := *current
		candidate.Status = model.StatusApproved

		active, err := s.repo.FindActive(txCtx)
		if err != nil {
			return apperrors.Internal("Failed to read active bookings", err)
		}

		if hit := conflict.FirstConflict(&candidate, active); hit != nil {
			return apperrors.TimeTaken(msgApproveConflict).WithDetails(map[string]any{
				"conflicting_booking_id": hit.ID,
				"date":                   hit.Date,
				"start_time":             hit.StartTime,
			})
		}

		if err := s.repo.UpdateStatus(txCtx, id, model.StatusApproved); err != nil {
			return s.mapRepoError(err, id, "Failed to approve booking")
		}

		approved = &candidate
		return nil
	})
	if err != nil {
		s.cfg.Log.Warn("Booking approval rejected", "id", id, "error", err)
		return nil, err
	}

	s.publish(ctx, events.TypeApproved, approved)
	s.cfg.Log.Info("Booking approved", "id", id)
	return approved, nil
}

// Deny is unconditional: removing a booking from the active set can never
// introduce a conflict, so no check runs.
func (s *bookingService) Deny(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.Status != model.StatusDenied {
		if err := s.repo.UpdateStatus(ctx, id, model.StatusDenied); err != nil {
			return nil, s.mapRepoError(err, id, "Failed to deny booking")
		}
		existing.Status = model.StatusDenied
		s.publish(ctx, events.TypeDenied, existing)
	}

	s.cfg.Log.Info("Booking denied", "id", id)
	return existing, nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	// Creation always starts a booking in PENDING, regardless of what the
	// client sent.
	b.Status = model.StatusPending
	if b.LessonType == "" {
		b.LessonType = s.cfg.DefaultLessonType
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.StudentName = sanitizer.NormalizeName(b.StudentName)
	b.StudentEmail = sanitizer.NormalizeEmail(b.StudentEmail)
	b.StudentPhone = sanitizer.NormalizePhone(b.StudentPhone)
	b.Location = sanitizer.TrimAndNormalize(b.Location)
	b.LessonType = sanitizer.TrimAndNormalize(b.LessonType)
	b.Note = sanitizer.NormalizeNote(b.Note)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve booking")
	}
	return booking, nil
}

func (s *bookingService) mapRepoError(err error, id string, internalMsg string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal(internalMsg, err)
}

func (s *bookingService) acquireAdmissionLock(ctx context.Context) (func(), error) {
	lock := &repository.AdmissionLock{
		ID:        admissionLockID,
		ExpiresAt: time.Now().Add(admissionLockTTL),
	}

	if err := s.lockRepo.Acquire(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) || errors.Is(err, bookingserrors.ErrLockHeld) {
			return nil, apperrors.Conflict("Another booking is being processed. Please try again.")
		}
		return nil, apperrors.Internal("Failed to acquire admission lock", err)
	}

	return func() {
		if err := s.lockRepo.Release(ctx, admissionLockID); err != nil {
			s.cfg.Log.Warn("Failed to release admission lock", "lock_id", admissionLockID, "error", err)
		}
	}, nil
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.New(eventType, booking)); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
