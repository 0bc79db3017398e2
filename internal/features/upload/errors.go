package upload

import "errors"

var (
	ErrImageNotFound  = errors.New("image not found")
	ErrFileRequired   = errors.New("no file provided")
	ErrNotAnImage     = errors.New("only image files are allowed")
	ErrTypeNotAllowed = errors.New("file type not allowed")
	ErrImageTooLarge  = errors.New("image exceeds the 5 MB limit")
	ErrFileTooLarge   = errors.New("file exceeds the 50 MB limit")
	ErrLessonRequired = errors.New("lessonId is required")
)
