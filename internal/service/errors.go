package service

import "errors"

// ErrInvalidInput marks caller mistakes that are not covered by a more
// specific sentinel.
var ErrInvalidInput = errors.New("invalid input")
