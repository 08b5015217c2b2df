package extarray

import "errors"

// ErrInvalidArgument is the error kind for a negative capacity or index.
var ErrInvalidArgument = errors.New("invalid argument")
