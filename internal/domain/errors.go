package domain

import "errors"

// ErrInvalidID and related errors describe validation failures on domain values.
var (
	ErrInvalidID         = errors.New("invalid id")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidStatus     = errors.New("invalid work status")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidAccessCode = errors.New("invalid access code")
	ErrUnknownEmployee   = errors.New("unknown employee")
)
