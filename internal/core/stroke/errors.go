package stroke

import "errors"

var (
	ErrFinished      = errors.New("stroke already finished")
	ErrInvalidConfig = errors.New("invalid stroke configuration")
)
