package progress

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/internal/features/lesson"
)

func setupTestDB(t *testing.T) (*gorm.DB, lesson.Lesson) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&lesson.Lesson{}, &Progress{}))

	lsn := lesson.Lesson{CourseID: uuid.New(), Title: "Intro", VideoURL: "https://cdn/v1", OrderIndex: 1}
	require.NoError(t, db.Create(&lsn).Error)

	return db, lsn
}

func TestMarkCompleteIsIdempotent(t *testing.T) {
	db, lsn := setupTestDB(t)
	userID := uuid.New()

	first, err := MarkComplete(db, userID, lsn.ID)
	require.NoError(t, err)
	assert.True(t, first.Completed)
	require.NotNil(t, first.CompletedAt)

	second, err := MarkComplete(db, userID, lsn.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Completed)

	var count int64
	require.NoError(t, db.Model(&Progress{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMarkCompleteUnknownLesson(t *testing.T) {
	db, _ := setupTestDB(t)

	_, err := MarkComplete(db, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestListForUserScopesToUser(t *testing.T) {
	db, lsn := setupTestDB(t)

	other := lesson.Lesson{CourseID: lsn.CourseID, Title: "Next", VideoURL: "https://cdn/v2", OrderIndex: 2}
	require.NoError(t, db.Create(&other).Error)

	alice := uuid.New()
	bob := uuid.New()

	_, err := MarkComplete(db, alice, lsn.ID)
	require.NoError(t, err)
	_, err = MarkComplete(db, alice, other.ID)
	require.NoError(t, err)
	_, err = MarkComplete(db, bob, lsn.ID)
	require.NoError(t, err)

	rows, err := ListForUser(db, alice)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = ListForUser(db, bob)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, lsn.ID, rows[0].LessonID)

	rows, err = ListForUser(db, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
