package progress

import "errors"

var ErrLessonNotFound = errors.New("lesson not found")
