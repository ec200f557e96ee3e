package storage

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrExists          = errors.New("already exists")
	ErrAlreadyAssigned = errors.New("game already has a reviewer")
	ErrNotReviewer     = errors.New("game is not assigned to this user")
	ErrCreateFailed    = errors.New("failed to create")
	ErrUpdateFailed    = errors.New("failed to update")
)
