package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "github.com/MuhammadFeyaz/go2koereskole/pkg/errors"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/logger"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/model"
)

const testCookie = "go2_sid"

// stubAuth resolves a single known token.
type stubAuth struct {
	token string
	user  *model.SessionUser
}

func (s *stubAuth) Login(context.Context, string, string) (*model.SessionUser, string, error) {
	return nil, "", nil
}

func (s *stubAuth) Resolve(_ context.Context, token string) (*model.SessionUser, error) {
	if token == s.token {
		return s.user, nil
	}
	return nil, apperrors.Unauthorized("Du er ikke logget ind.")
}

func (s *stubAuth) Logout(context.Context, string) error { return nil }

func newTestGuard(role string) *Guard {
	log := logger.New(logger.Config{Output: io.Discard, Level: logger.ERROR})
	auth := &stubAuth{
		token: "valid-token",
		user:  &model.SessionUser{ID: "user-1", Role: role, Email: "user@example.com"},
	}
	return NewGuard(auth, testCookie, log)
}

func doRequest(t *testing.T, handle httprouter.Handle, cookieValue string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	handle(rec, req, nil)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON error body: %v", err)
	}
	return body.Error
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	guard := newTestGuard(model.RoleStudent)

	var seen *model.SessionUser
	handle := guard.RequireRole(model.RoleStudent, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		seen = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := doRequest(t, handle, "valid-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if seen == nil || seen.ID != "user-1" {
		t.Errorf("handler saw user %+v, want user-1 in context", seen)
	}
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	guard := newTestGuard(model.RoleStudent)

	handle := guard.RequireRole(model.RoleAdmin, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("handler ran despite wrong role")
	})

	rec := doRequest(t, handle, "valid-token")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if code := errorCode(t, rec); code != apperrors.CodeForbidden {
		t.Errorf("error code = %s, want FORBIDDEN", code)
	}
}

func TestRequireRoleRejectsMissingCookie(t *testing.T) {
	guard := newTestGuard(model.RoleStudent)

	handle := guard.RequireRole(model.RoleStudent, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("handler ran without a session")
	})

	rec := doRequest(t, handle, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRoleRejectsUnknownToken(t *testing.T) {
	guard := newTestGuard(model.RoleStudent)

	handle := guard.RequireRole(model.RoleStudent, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("handler ran with an unknown token")
	})

	rec := doRequest(t, handle, "stale-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireLoginAcceptsAnyRole(t *testing.T) {
	for _, role := range []string{model.RoleStudent, model.RoleAdmin} {
		guard := newTestGuard(role)

		handle := guard.RequireLogin(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusOK)
		})

		rec := doRequest(t, handle, "valid-token")
		if rec.Code != http.StatusOK {
			t.Errorf("role %s: status = %d, want 200", role, rec.Code)
		}
	}
}

func TestUserFromContextWithoutGuard(t *testing.T) {
	if user := UserFromContext(context.Background()); user != nil {
		t.Errorf("UserFromContext on bare context = %+v, want nil", user)
	}
}
