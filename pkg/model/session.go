package model

import "time"

// Session is a server-side login session, keyed by an opaque token carried in
// an HttpOnly cookie. Mongo expires rows via a TTL index on expires_at.
type Session struct {
	Token     string    `json:"token" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Role      string    `json:"role" bson:"role"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone" bson:"phone"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// SessionUser is the sanitized identity exposed to handlers and to the
// /api/auth/me endpoint. No credential material ever crosses this boundary.
type SessionUser struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (s *Session) User() *SessionUser {
	return &SessionUser{
		ID:    s.UserID,
		Role:  s.Role,
		Email: s.Email,
		Name:  s.Name,
		Phone: s.Phone,
	}
}
