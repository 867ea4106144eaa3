package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	authmw "github.com/MuhammadFeyaz/go2koereskole/internal/auth/middleware"
	"github.com/MuhammadFeyaz/go2koereskole/internal/students/service"
	apperrors "github.com/MuhammadFeyaz/go2koereskole/pkg/errors"
	httputil "github.com/MuhammadFeyaz/go2koereskole/pkg/http"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/logger"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/model"
)

type StudentHandler struct {
	service service.StudentService
	guard   *authmw.Guard
	log     *logger.Logger
}

func NewStudentHandler(service service.StudentService, guard *authmw.Guard, log *logger.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var student model.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &student); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, student); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *StudentHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	students, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, students, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *StudentHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	student, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, student); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *StudentHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *StudentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/students", h.guard.RequireRole(model.RoleAdmin, h.Create))
	router.GET("/api/v1/students", h.guard.RequireRole(model.RoleAdmin, h.GetAll))
	router.GET("/api/v1/students/id/:id", h.guard.RequireRole(model.RoleAdmin, h.GetByID))
	router.DELETE("/api/v1/students/id/:id", h.guard.RequireRole(model.RoleAdmin, h.Delete))
}
