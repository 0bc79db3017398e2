package attachment

import "errors"

var (
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrLessonNotFound     = errors.New("lesson not found")
)
