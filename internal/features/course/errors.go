package course

import "errors"

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrMissingFields  = errors.New("title, description and category are required")
)
