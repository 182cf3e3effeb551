package storage

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrDuplicateRole    = errors.New("role already present")
	ErrRoleInOtherGroup = errors.New("role already belongs to another exclusive group")
)
