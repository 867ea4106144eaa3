package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	authmw "github.com/MuhammadFeyaz/go2koereskole/internal/auth/middleware"
	"github.com/MuhammadFeyaz/go2koereskole/internal/auth/service"
	apperrors "github.com/MuhammadFeyaz/go2koereskole/pkg/errors"
	httputil "github.com/MuhammadFeyaz/go2koereskole/pkg/http"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthHandler struct {
	service    service.AuthService
	guard      *authmw.Guard
	cookieName string
	sessionTTL time.Duration
	log        *logger.Logger
}

func NewAuthHandler(
	authService service.AuthService,
	guard *authmw.Guard,
	cookieName string,
	sessionTTL time.Duration,
	log *logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		service:    authService,
		guard:      guard,
		cookieName: cookieName,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Login", apperrors.InvalidInput("Invalid request body"))
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "error", err)
	}
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := authmw.UserFromContext(r.Context())
	if user == nil {
		h.writeError(w, "Me", apperrors.Unauthorized("You must be logged in"))
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "error", err)
	}
}

// Logout clears the session cookie even when no valid session exists, so a
// stale browser always ends up logged out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if cookie, err := r.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			h.log.Warn("failed to delete session on logout", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	httputil.WriteNoContent(w)
}

func (h *AuthHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/auth/login", h.Login)
	router.GET("/api/auth/me", h.guard.RequireLogin(h.Me))
	router.POST("/api/auth/logout", h.Logout)
}
