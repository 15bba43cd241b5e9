package notifications

import "errors"

// ErrNotFound is returned when a notification does not exist for the
// recipient.
var ErrNotFound = errors.New("notification not found")
