package services

import "errors"

var (
	// ErrNotFound means the requested published design does not exist.
	ErrNotFound = errors.New("published design not found")

	// ErrNotAuthorized means the requesting user's author identity does
	// not own the design.
	ErrNotAuthorized = errors.New("not authorized to modify this design")

	// ErrSlugSpaceExhausted means slug collision probing hit its bound.
	ErrSlugSpaceExhausted = errors.New("could not generate a unique slug")
)
