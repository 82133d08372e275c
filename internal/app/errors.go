package app

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoQuestion   = errors.New("no question provided")
	ErrNoImage      = errors.New("no image provided")
	ErrNoAudio      = errors.New("no audio provided")
)
