package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MuhammadFeyaz/go2koereskole/internal/auth/repository"
	studentserrors "github.com/MuhammadFeyaz/go2koereskole/internal/students/errors"
	studentsrepo "github.com/MuhammadFeyaz/go2koereskole/internal/students/repository"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/config"
	apperrors "github.com/MuhammadFeyaz/go2koereskole/pkg/errors"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/model"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/sanitizer"
)

const msgInvalidLogin = "Forkert email eller adgangskode."

const adminUserID = "admin"

type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.SessionUser, string, error)
	Resolve(ctx context.Context, token string) (*model.SessionUser, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	sessions repository.SessionRepository
	students studentsrepo.StudentRepository
	cfg      *config.Config
}

func NewAuthService(
	sessions repository.SessionRepository,
	students studentsrepo.StudentRepository,
	cfg *config.Config,
) AuthService {
	return &authService{
		sessions: sessions,
		students: students,
		cfg:      cfg,
	}
}

// Login authenticates either the configured admin account or a student record
// and mints a session token. The same INVALID_LOGIN error is returned for an
// unknown email and a wrong password.
func (s *authService) Login(ctx context.Context, email, password string) (*model.SessionUser, string, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", apperrors.InvalidLogin(msgInvalidLogin)
	}

	if s.isAdmin(email, password) {
		return s.openSession(ctx, &model.SessionUser{
			ID:    adminUserID,
			Role:  model.RoleAdmin,
			Email: s.cfg.AdminEmail,
			Name:  "Admin",
		})
	}

	student, err := s.students.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, studentserrors.ErrNotFound) {
			return nil, "", apperrors.InvalidLogin(msgInvalidLogin)
		}
		return nil, "", apperrors.Internal("Failed to look up account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.InvalidLogin(msgInvalidLogin)
	}

	return s.openSession(ctx, &model.SessionUser{
		ID:    student.ID,
		Role:  model.RoleStudent,
		Email: student.Email,
		Name:  student.Name,
		Phone: student.Phone,
	})
}

func (s *authService) Resolve(ctx context.Context, token string) (*model.SessionUser, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("Du er ikke logget ind.")
	}

	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("Du er ikke logget ind.")
		}
		return nil, apperrors.Internal("Failed to resolve session", err)
	}

	return session.User(), nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return apperrors.Internal("Failed to end session", err)
	}
	return nil
}

func (s *authService) isAdmin(email, password string) bool {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(sanitizer.NormalizeEmail(s.cfg.AdminEmail))) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	return emailOK && passOK
}

func (s *authService) openSession(ctx context.Context, user *model.SessionUser) (*model.SessionUser, string, error) {
	session := &model.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		ExpiresAt: time.Now().Add(s.cfg.SessionTTL).UTC().Truncate(time.Millisecond),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", apperrors.Internal("Failed to create session", err)
	}

	s.cfg.Log.Info("Session opened", "user_id", user.ID, "role", user.Role)
	return user, session.Token, nil
}
