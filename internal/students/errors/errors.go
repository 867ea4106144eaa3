package errors

import "errors"

var (
	ErrNotFound = errors.New("student not found")

	ErrInvalidID = errors.New("invalid student ID format")

	ErrEmailExists = errors.New("a student with this email already exists")
)
