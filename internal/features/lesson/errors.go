package lesson

import "errors"

var (
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrMissingFields      = errors.New("title and videoUrl are required")
	ErrMissingUpdate      = errors.New("title, description, videoUrl and orderIndex are required")
)
