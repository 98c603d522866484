package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrBadRequest = errors.New("bad request")
)
