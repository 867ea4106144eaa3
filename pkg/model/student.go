package model

import "time"

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// Student accounts are created by the admin; students never self-register.
// Password is accepted on create only and never stored or serialized back.
type Student struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	Phone        string    `json:"phone" bson:"phone" validate:"required,min=6,max=30"`
	Password     string    `json:"password,omitempty" bson:"-" validate:"omitempty,min=8,max=72"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
