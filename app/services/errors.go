package services

import "errors"

// ErrPostNotFound is returned when a post id does not exist in the store.
var ErrPostNotFound = errors.New("post not found")
