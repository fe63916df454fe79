package domain

import "errors"

// Shared errors matched with errors.Is at the HTTP boundary.
var (
	ErrDistrictNotFound = errors.New("district not found")
	ErrImageNotFound    = errors.New("image not found")
	ErrInvalidImage     = errors.New("invalid image data url")
	ErrEmptyMessage     = errors.New("message or image required")
	ErrInvalidLocation  = errors.New("invalid coordinates")
	ErrSearchDisabled   = errors.New("search is not configured")
	ErrUpstream         = errors.New("upstream service error")
)
