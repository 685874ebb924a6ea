package store

import "errors"

// ErrNotFound is returned by mutations whose target record does not exist
// for the requesting user. Records owned by another user are reported the
// same way, so ownership is never leaked.
var ErrNotFound = errors.New("record not found")
