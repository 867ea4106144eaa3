package middleware

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/MuhammadFeyaz/go2koereskole/internal/auth/service"
	apperrors "github.com/MuhammadFeyaz/go2koereskole/pkg/errors"
	httputil "github.com/MuhammadFeyaz/go2koereskole/pkg/http"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/logger"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/model"
)

type contextKey string

const userKey contextKey = "session_user"

// Guard wraps individual routes with session-cookie authentication and role
// checks. 401 means no valid session, 403 means wrong role.
type Guard struct {
	auth       service.AuthService
	cookieName string
	log        *logger.Logger
}

func NewGuard(auth service.AuthService, cookieName string, log *logger.Logger) *Guard {
	return &Guard{
		auth:       auth,
		cookieName: cookieName,
		log:        log,
	}
}

func (g *Guard) RequireRole(role string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user, err := g.resolve(r)
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				g.log.Error("failed to write error response", "middleware", "RequireRole", "error", writeErr)
			}
			return
		}

		if user.Role != role {
			if writeErr := httputil.WriteError(w, apperrors.Forbidden("Insufficient permissions")); writeErr != nil {
				g.log.Error("failed to write error response", "middleware", "RequireRole", "error", writeErr)
			}
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), user)), ps)
	}
}

// RequireLogin accepts any authenticated role.
func (g *Guard) RequireLogin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user, err := g.resolve(r)
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				g.log.Error("failed to write error response", "middleware", "RequireLogin", "error", writeErr)
			}
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), user)), ps)
	}
}

func (g *Guard) resolve(r *http.Request) (*model.SessionUser, error) {
	cookie, err := r.Cookie(g.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, apperrors.Unauthorized("You must be logged in")
	}

	user, err := g.auth.Resolve(r.Context(), cookie.Value)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func WithUser(ctx context.Context, user *model.SessionUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user placed by the guard, or nil
// on unguarded routes.
func UserFromContext(ctx context.Context) *model.SessionUser {
	if user, ok := ctx.Value(userKey).(*model.SessionUser); ok {
		return user
	}
	return nil
}
