package dataset

import "errors"

var (
	ErrInvalidName = errors.New("invalid gesture name")
	ErrMalformed   = errors.New("malformed gesture file")
	ErrOutOfRange  = errors.New("drawing index out of range")
)
