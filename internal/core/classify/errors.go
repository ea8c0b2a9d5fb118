package classify

import "errors"

var (
	ErrNoTemplates      = errors.New("no templates")
	ErrTemplateClass    = errors.New("template class out of range")
	ErrScoreCount       = errors.New("unexpected number of class scores")
	ErrInvalidClassName = errors.New("invalid class name")
)
