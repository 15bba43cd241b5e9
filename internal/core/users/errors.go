package users

import "errors"

// ErrNotFound is returned when a user does not exist.
var ErrNotFound = errors.New("user not found")
