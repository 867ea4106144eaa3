package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	authmw "github.com/MuhammadFeyaz/go2koereskole/internal/auth/middleware"
	"github.com/MuhammadFeyaz/go2koereskole/internal/bookings/service"
	apperrors "github.com/MuhammadFeyaz/go2koereskole/pkg/errors"
	httputil "github.com/MuhammadFeyaz/go2koereskole/pkg/http"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/logger"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	guard   *authmw.Guard
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, guard *authmw.Guard, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

// Create accepts a booking request from the logged-in student. Identity
// fields are stamped from the session, never trusted from the body.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	user := authmw.UserFromContext(r.Context())
	booking.StudentID = user.ID
	booking.StudentName = user.Name
	booking.StudentEmail = user.Email
	booking.StudentPhone = user.Phone

	if err := h.service.Create(r.Context(), &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) My(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "My", err)
		return
	}

	user := authmw.UserFromContext(r.Context())
	bookings, total, err := h.service.ListByStudent(r.Context(), user.ID, limit, offset)
	if err != nil {
		h.writeError(w, "My", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "My", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Approve(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Approve", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Approve", "error", err)
	}
}

func (h *BookingHandler) Deny(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Deny(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Deny", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Deny", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.guard.RequireRole(model.RoleStudent, h.Create))
	router.GET("/api/v1/bookings/my", h.guard.RequireRole(model.RoleStudent, h.My))
	router.GET("/api/v1/bookings", h.guard.RequireRole(model.RoleAdmin, h.GetAll))
	router.GET("/api/v1/bookings/id/:id", h.guard.RequireRole(model.RoleAdmin, h.GetByID))
	router.POST("/api/v1/bookings/id/:id/approve", h.guard.RequireRole(model.RoleAdmin, h.Approve))
	router.POST("/api/v1/bookings/id/:id/deny", h.guard.RequireRole(model.RoleAdmin, h.Deny))
}
