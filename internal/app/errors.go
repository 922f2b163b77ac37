package app

import "errors"

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound       = errors.New("not found")
	ErrNotInitialized = errors.New("store not initialized")
	ErrInvalidImport  = errors.New("invalid backup payload")
	ErrAccessDenied   = errors.New("access code not recognized")
)
