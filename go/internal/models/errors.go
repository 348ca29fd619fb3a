package models

import "errors"

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned by repositories when a write collides with a
// uniqueness rule, such as a reused pick number or an already rostered player.
var ErrConflict = errors.New("conflict")
