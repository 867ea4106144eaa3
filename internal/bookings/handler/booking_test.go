package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	authmw "github.com/MuhammadFeyaz/go2koereskole/internal/auth/middleware"
	apperrors "github.com/MuhammadFeyaz/go2koereskole/pkg/errors"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/logger"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/model"
)

// stubService lets each test pin the behavior of a single operation.
type stubService struct {
	createFn  func(ctx context.Context, b *model.Booking) error
	approveFn func(ctx context.Context, id string) (*model.Booking, error)
	denyFn    func(ctx context.Context, id string) (*model.Booking, error)
	getByIDFn func(ctx context.Context, id string) (*model.Booking, error)
}

func (s *stubService) Create(ctx context.Context, b *model.Booking) error {
	return s.createFn(ctx, b)
}

func (s *stubService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubService) GetAll(context.Context, int, int64) ([]*model.Booking, int64, error) {
	return nil, 0, nil
}

func (s *stubService) ListByStudent(context.Context, string, int, int64) ([]*model.Booking, int64, error) {
	return nil, 0, nil
}

func (s *stubService) Approve(ctx context.Context, id string) (*model.Booking, error) {
	return s.approveFn(ctx, id)
}

func (s *stubService) Deny(ctx context.Context, id string) (*model.Booking, error) {
	return s.denyFn(ctx, id)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard, Level: logger.ERROR})
}

func sessionCtx(user *model.SessionUser) context.Context {
	return authmw.WithUser(context.Background(), user)
}

func TestCreateStampsIdentityFromSession(t *testing.T) {
	var got *model.Booking
	svc := &stubService{
		createFn: func(_ context.Context, b *model.Booking) error {
			got = b
			b.ID = "booking-001"
			return nil
		},
	}
	h := NewBookingHandler(svc, nil, testLogger())

	body := `{
		"student_id": "spoofed-id",
		"student_name": "Spoofed Name",
		"location": "Valby – Langgade St.",
		"date": "2025-03-10",
		"start_time": "10:00",
		"duration_min": 60
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req = req.WithContext(sessionCtx(&model.SessionUser{
		ID:    "student-1",
		Role:  model.RoleStudent,
		Name:  "Mette Jensen",
		Email: "mette@example.com",
		Phone: "+45 20 12 34 56",
	}))
	rec := httptest.NewRecorder()

	h.Create(rec, req, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
	if got.StudentID != "student-1" {
		t.Errorf("StudentID = %q, want session identity, not body value", got.StudentID)
	}
	if got.StudentName != "Mette Jensen" || got.StudentEmail != "mette@example.com" {
		t.Errorf("identity fields not stamped from session: %+v", got)
	}
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	svc := &stubService{
		createFn: func(context.Context, *model.Booking) error {
			t.Error("service called with malformed body")
			return nil
		},
	}
	h := NewBookingHandler(svc, nil, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{not json"))
	req = req.WithContext(sessionCtx(&model.SessionUser{ID: "student-1", Role: model.RoleStudent}))
	rec := httptest.NewRecorder()

	h.Create(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateConflictMapsTo409(t *testing.T) {
	svc := &stubService{
		createFn: func(context.Context, *model.Booking) error {
			return apperrors.TimeTaken("Tiden overlapper med en anden booking. Vælg et andet tidspunkt.")
		},
	}
	h := NewBookingHandler(svc, nil, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	req = req.WithContext(sessionCtx(&model.SessionUser{ID: "student-1", Role: model.RoleStudent}))
	rec := httptest.NewRecorder()

	h.Create(rec, req, nil)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON error body: %v", err)
	}
	if body.Error != apperrors.CodeTimeTaken {
		t.Errorf("error code = %s, want TIME_TAKEN", body.Error)
	}
	if body.Message == "" {
		t.Error("conflict response has no message")
	}
}

func TestApproveNotFoundMapsTo404(t *testing.T) {
	svc := &stubService{
		approveFn: func(_ context.Context, id string) (*model.Booking, error) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		},
	}
	h := NewBookingHandler(svc, nil, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/missing/approve", nil)
	rec := httptest.NewRecorder()

	h.Approve(rec, req, httprouter.Params{{Key: "id", Value: "missing"}})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDenyReturnsBooking(t *testing.T) {
	svc := &stubService{
		denyFn: func(_ context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, Status: model.StatusDenied}, nil
		},
	}
	h := NewBookingHandler(svc, nil, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/booking-001/deny", nil)
	rec := httptest.NewRecorder()

	h.Deny(rec, req, httprouter.Params{{Key: "id", Value: "booking-001"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Data model.Booking `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Data.Status != model.StatusDenied {
		t.Errorf("Status = %s, want DENIED", body.Data.Status)
	}
}
