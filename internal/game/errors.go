package game

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidInput    = errors.New("invalid input")
	ErrAlreadyAnswered = errors.New("already answered")

	// ErrCodeSpaceExhausted is an ErrAlreadyExists for every generated code.
	ErrCodeSpaceExhausted = fmt.Errorf("no free session code: %w", ErrAlreadyExists)
)
