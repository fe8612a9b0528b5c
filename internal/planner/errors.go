package planner

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrIllegalTransition = errors.New("illegal planner transition")
)
