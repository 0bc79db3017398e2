package attachment

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
	require.NoError(t, db.AutoMigrate(&lesson.Lesson{}, &Attachment{}))

	lsn := lesson.Lesson{CourseID: uuid.New(), Title: "Intro", VideoURL: "https://cdn/v1", OrderIndex: 1}
	require.NoError(t, db.Create(&lsn).Error)

	return db, lsn
}

func newAttachment(lessonID uuid.UUID, name string) Attachment {
	return Attachment{
		LessonID:     lessonID,
		Filename:     "1700000000000_" + name,
		OriginalName: name,
		ContentType:  "application/pdf",
		FileSize:     12,
		URL:          "/api/attachments/" + name,
	}
}

func lessonMetas(t *testing.T, db *gorm.DB, lessonID uuid.UUID) []lesson.AttachmentMeta {
	t.Helper()

	var lsn lesson.Lesson
	require.NoError(t, db.First(&lsn, "id = ?", lessonID).Error)

	metas, err := lesson.DecodeAttachmentMetas(lsn.Attachments)
	require.NoError(t, err)
	return metas
}

func TestCreateMirrorsMetadataOntoLesson(t *testing.T) {
	db, lsn := setupTestDB(t)

	att := newAttachment(lsn.ID, "notes.pdf")
	require.NoError(t, Create(db, &att))

	second := newAttachment(lsn.ID, "slides.pdf")
	require.NoError(t, Create(db, &second))

	metas := lessonMetas(t, db, lsn.ID)
	require.Len(t, metas, 2)
	assert.Equal(t, att.ID, metas[0].ID)
	assert.Equal(t, "notes.pdf", metas[0].OriginalName)
	assert.Equal(t, second.ID, metas[1].ID)
}

func TestCreateRejectsUnknownLesson(t *testing.T) {
	db, _ := setupTestDB(t)

	att := newAttachment(uuid.New(), "notes.pdf")
	err := Create(db, &att)
	assert.ErrorIs(t, err, ErrLessonNotFound)

	var count int64
	require.NoError(t, db.Model(&Attachment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteRemovesRowAndMirror(t *testing.T) {
	db, lsn := setupTestDB(t)

	first := newAttachment(lsn.ID, "notes.pdf")
	require.NoError(t, Create(db, &first))
	second := newAttachment(lsn.ID, "slides.pdf")
	require.NoError(t, Create(db, &second))

	deleted, err := Delete(db, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Filename, deleted.Filename)

	_, err = Get(db, first.ID)
	assert.ErrorIs(t, err, ErrAttachmentNotFound)

	metas := lessonMetas(t, db, lsn.ID)
	require.Len(t, metas, 1)
	assert.Equal(t, second.ID, metas[0].ID)

	_, err = Delete(db, first.ID)
	assert.ErrorIs(t, err, ErrAttachmentNotFound)
}

func TestListByLessonOmitsPayload(t *testing.T) {
	db, lsn := setupTestDB(t)

	att := newAttachment(lsn.ID, "notes.pdf")
	att.FileData = []byte("inline payload")
	require.NoError(t, Create(db, &att))

	atts, err := ListByLesson(db, lsn.ID)
	require.NoError(t, err)
	require.Len(t, atts, 1)
	assert.Empty(t, atts[0].FileData)

	loaded, err := Get(db, att.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("inline payload"), loaded.FileData)
}
