package course_test

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/internal/features/attachment"
	"github.com/jusacademy/courses-server-go/internal/features/course"
	"github.com/jusacademy/courses-server-go/internal/features/lesson"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&course.Course{}, &lesson.Lesson{}, &attachment.Attachment{}))

	return db
}

func TestCreateRequiresAllTextFields(t *testing.T) {
	db := setupTestDB(t)

	_, err := course.Create(db, course.Input{Title: "Go Basics", Description: "Intro", Category: ""})
	assert.ErrorIs(t, err, course.ErrMissingFields)

	_, err = course.Create(db, course.Input{Title: "  ", Description: "Intro", Category: "go"})
	assert.ErrorIs(t, err, course.ErrMissingFields)

	crs, err := course.Create(db, course.Input{Title: "Go Basics", Description: "Intro", Category: "go"})
	require.NoError(t, err)
	assert.NotEqual(t, crs.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestListNewestFirst(t *testing.T) {
	db := setupTestDB(t)

	older := course.Course{Title: "Older", Description: "d", Category: "c"}
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&older).Error)

	newer := course.Course{Title: "Newer", Description: "d", Category: "c"}
	newer.CreatedAt = time.Now()
	require.NoError(t, db.Create(&newer).Error)

	courses, err := course.List(db)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Newer", courses[0].Title)
	assert.Equal(t, "Older", courses[1].Title)
}

func TestGetFreshCourseRendersEmptyLessons(t *testing.T) {
	db := setupTestDB(t)

	crs, err := course.Create(db, course.Input{Title: "Go Basics", Description: "Intro", Category: "go"})
	require.NoError(t, err)

	loaded, err := course.Get(db, crs.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Lessons)

	encoded, err := json.Marshal(loaded)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"lessons":[]`)

	// The create response carries the array too.
	encoded, err = json.Marshal(crs)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"lessons":[]`)
}

func TestGetReturnsLessonsInPlaybackOrder(t *testing.T) {
	db := setupTestDB(t)

	crs, err := course.Create(db, course.Input{Title: "Go Basics", Description: "d", Category: "go"})
	require.NoError(t, err)

	second, err := lesson.Create(db, crs.ID, lesson.CreateInput{Title: "Second", VideoURL: "v2", OrderIndex: 2})
	require.NoError(t, err)
	first, err := lesson.Create(db, crs.ID, lesson.CreateInput{Title: "First", VideoURL: "v1", OrderIndex: 1})
	require.NoError(t, err)

	loaded, err := course.Get(db, crs.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Lessons, 2)
	assert.Equal(t, first.ID, loaded.Lessons[0].ID)
	assert.Equal(t, second.ID, loaded.Lessons[1].ID)
}

func TestUpdateNotFound(t *testing.T) {
	db := setupTestDB(t)

	crs, err := course.Create(db, course.Input{Title: "T", Description: "d", Category: "c"})
	require.NoError(t, err)
	require.NoError(t, course.Delete(db, crs.ID))

	_, err = course.Update(db, crs.ID, course.Input{Title: "T2", Description: "d2", Category: "c2"})
	assert.ErrorIs(t, err, course.ErrCourseNotFound)
}

func TestUpdateKeepsImageWhenOmitted(t *testing.T) {
	db := setupTestDB(t)

	image := "/api/images/cover.png"
	crs, err := course.Create(db, course.Input{Title: "T", Description: "d", Category: "c", ImageURL: &image})
	require.NoError(t, err)

	updated, err := course.Update(db, crs.ID, course.Input{Title: "T2", Description: "d2", Category: "c2"})
	require.NoError(t, err)
	require.NotNil(t, updated.ImageURL)
	assert.Equal(t, image, *updated.ImageURL)
}

func TestDeleteCascades(t *testing.T) {
	db := setupTestDB(t)

	crs, err := course.Create(db, course.Input{Title: "T", Description: "d", Category: "c"})
	require.NoError(t, err)

	lsn, err := lesson.Create(db, crs.ID, lesson.CreateInput{Title: "L", VideoURL: "v"})
	require.NoError(t, err)

	att := attachment.Attachment{
		LessonID:     lsn.ID,
		Filename:     "1_notes.pdf",
		OriginalName: "notes.pdf",
		ContentType:  "application/pdf",
		FileSize:     4,
		URL:          "/api/attachments/x",
	}
	require.NoError(t, attachment.Create(db, &att))

	require.NoError(t, course.Delete(db, crs.ID))

	var lessonCount, attachmentCount int64
	require.NoError(t, db.Table("lessons").Count(&lessonCount).Error)
	require.NoError(t, db.Table("lesson_attachments").Count(&attachmentCount).Error)
	assert.Zero(t, lessonCount)
	assert.Zero(t, attachmentCount)

	assert.ErrorIs(t, course.Delete(db, crs.ID), course.ErrCourseNotFound)
}
