package caster

import "errors"

var (
	ErrAlreadyDrawing = errors.New("hand is already drawing")
	ErrNotDrawing     = errors.New("hand is not drawing")
	ErrInvalidHand    = errors.New("invalid hand")
)
