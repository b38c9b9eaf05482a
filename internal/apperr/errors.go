package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrParse    = errors.New("could not parse model output")
	ErrUpstream = errors.New("upstream call failed")
	ErrBadInput = errors.New("invalid input")
)
