package admin

import (
	"errors"
)

var (
	ErrForbidden    = errors.New("administrator role required")
	ErrInvalidInput = errors.New("invalid input")
)
