package app

import "errors"

var (
	// ErrNotFound indicates a gym, member or plan lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrInvalid indicates the request failed validation.
	ErrInvalid = errors.New("invalid request")
	// ErrDatabase indicates a local persistence failure.
	ErrDatabase = errors.New("database error")
	// ErrConflict indicates the resource already exists, e.g. a second
	// onboarding attempt by the same owner.
	ErrConflict = errors.New("conflict")
)
