package scrapbooks

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
	ErrTooLarge = errors.New("document too large")
)
