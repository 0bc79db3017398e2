package attachment

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/internal/features/lesson"
	"github.com/jusacademy/courses-server-go/pkg/types"
)

// Attachment is a file uploaded against a lesson. FileData is populated only
// in the row-backed storage mode; in filesystem mode the payload lives on
// disk under Filename.
type Attachment struct {
	types.BaseModel

	LessonID     uuid.UUID `gorm:"type:uuid;not null;index" json:"lessonId"`
	Filename     string    `gorm:"type:varchar(512);not null" json:"filename"`
	OriginalName string    `gorm:"type:varchar(512);not null;column:original_name" json:"originalName"`
	ContentType  string    `gorm:"type:varchar(255);not null;column:content_type" json:"contentType"`
	FileSize     int64     `gorm:"not null;column:file_size" json:"fileSize"`
	FileData     []byte    `gorm:"type:bytea;column:file_data" json:"-"`
	URL          string    `gorm:"type:text;not null" json:"url"`
}

// TableName overrides the default table name.
func (Attachment) TableName() string { return "lesson_attachments" }

// StorageKey is where the payload lives relative to the uploads root when
// running in filesystem mode.
func (a *Attachment) StorageKey() string {
	return "attachments/" + a.Filename
}

func (a *Attachment) meta() lesson.AttachmentMeta {
	return lesson.AttachmentMeta{
		ID:           a.ID,
		Filename:     a.Filename,
		OriginalName: a.OriginalName,
		ContentType:  a.ContentType,
		FileSize:     a.FileSize,
		URL:          a.URL,
	}
}

// Get retrieves an attachment row, including any inline payload.
func Get(db *gorm.DB, id uuid.UUID) (Attachment, error) {
	var att Attachment
	if err := db.First(&att, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return att, ErrAttachmentNotFound
		}
		return att, err
	}
	return att, nil
}

// ListByLesson returns a lesson's attachment rows without payloads.
func ListByLesson(db *gorm.DB, lessonID uuid.UUID) ([]Attachment, error) {
	var atts []Attachment
	if err := db.Omit("file_data").
		Where("lesson_id = ?", lessonID).
		Order("created_at ASC").
		Find(&atts).Error; err != nil {
		return nil, err
	}
	return atts, nil
}

// Create inserts the attachment row and appends its metadata to the parent
// lesson's denormalized list inside one transaction.
func Create(db *gorm.DB, att *Attachment) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var lsn lesson.Lesson
		if err := tx.First(&lsn, "id = ?", att.LessonID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrLessonNotFound
			}
			return err
		}

		if err := tx.Create(att).Error; err != nil {
			return err
		}

		metas, err := lesson.DecodeAttachmentMetas(lsn.Attachments)
		if err != nil {
			return err
		}
		metas = append(metas, att.meta())

		return lesson.SetAttachmentMetas(tx, lsn.ID, metas)
	})
}

// Delete removes the row and the mirrored metadata in one transaction,
// returning the deleted row so the caller can clean up disk storage.
func Delete(db *gorm.DB, id uuid.UUID) (Attachment, error) {
	var att Attachment

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&att, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrAttachmentNotFound
			}
			return err
		}

		if err := tx.Delete(&Attachment{}, "id = ?", id).Error; err != nil {
			return err
		}

		var lsn lesson.Lesson
		if err := tx.First(&lsn, "id = ?", att.LessonID).Error; err != nil {
			// Lesson already gone, nothing to mirror.
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}

		metas, err := lesson.DecodeAttachmentMetas(lsn.Attachments)
		if err != nil {
			return err
		}

		kept := metas[:0]
		for _, m := range metas {
			if m.ID != id {
				kept = append(kept, m)
			}
		}

		return lesson.SetAttachmentMetas(tx, lsn.ID, kept)
	})

	return att, err
}
