package errs

import (
	"errors"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrNoCopiesAvailable  = errors.New("no copies available")
	ErrAlreadyReturned    = errors.New("book already returned")
)
