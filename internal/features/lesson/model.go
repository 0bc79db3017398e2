package lesson

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/pkg/types"
)

// Lesson is a single video unit inside a course. Attachments carries a
// denormalized copy of the lesson's attachment metadata that the attachment
// feature keeps in sync with the lesson_attachments table.
type Lesson struct {
	types.BaseModel

	CourseID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"courseId"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	VideoURL    string         `gorm:"type:text;not null;column:video_url" json:"videoUrl"`
	OrderIndex  int            `gorm:"not null;default:1;column:order_index" json:"orderIndex"`
	Attachments datatypes.JSON `gorm:"type:json" json:"attachments"`
}

// TableName overrides the default table name.
func (Lesson) TableName() string { return "lessons" }

// AfterFind normalizes a missing attachments column so lessons always render
// an array, never null.
func (l *Lesson) AfterFind(*gorm.DB) error {
	if len(l.Attachments) == 0 {
		l.Attachments = datatypes.JSON("[]")
	}
	return nil
}

// AttachmentMeta is one denormalized attachment record inside Attachments.
// The attachment feature keeps this list in sync with the lesson_attachments
// table; both change together or not at all.
type AttachmentMeta struct {
	ID           uuid.UUID `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	FileSize     int64     `json:"fileSize"`
	URL          string    `json:"url"`
}

// DecodeAttachmentMetas parses a lesson's denormalized attachment list.
func DecodeAttachmentMetas(raw datatypes.JSON) ([]AttachmentMeta, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var metas []AttachmentMeta
	if err := json.Unmarshal(raw, &metas); err != nil {
		return nil, err
	}
	return metas, nil
}

// SetAttachmentMetas rewrites a lesson's denormalized attachment list. A nil
// slice stores an empty array.
func SetAttachmentMetas(tx *gorm.DB, lessonID uuid.UUID, metas []AttachmentMeta) error {
	if metas == nil {
		metas = []AttachmentMeta{}
	}

	encoded, err := json.Marshal(metas)
	if err != nil {
		return err
	}

	return tx.Model(&Lesson{}).
		Where("id = ?", lessonID).
		Update("attachments", datatypes.JSON(encoded)).Error
}

// CreateInput carries fields for a new lesson. OrderIndex zero means "use the
// default position". AttachmentIDs optionally re-parents existing attachment
// rows under the new lesson.
type CreateInput struct {
	Title         string
	Description   string
	VideoURL      string
	OrderIndex    int
	AttachmentIDs []uuid.UUID
}

// UpdateInput carries the full replacement state of a lesson. Unlike create,
// every field must be provided.
type UpdateInput struct {
	Title       *string
	Description *string
	VideoURL    *string
	OrderIndex  *int
}

// ListByCourse returns a course's lessons in playback order. Ties on
// order_index fall back to insertion order.
func ListByCourse(db *gorm.DB, courseID uuid.UUID) ([]Lesson, error) {
	if err := ensureCourseExists(db, courseID); err != nil {
		return nil, err
	}

	var lessons []Lesson
	if err := db.Where("course_id = ?", courseID).
		Order("order_index ASC, created_at ASC").
		Find(&lessons).Error; err != nil {
		return nil, err
	}

	return lessons, nil
}

// Get retrieves a lesson by ID.
func Get(db *gorm.DB, id uuid.UUID) (Lesson, error) {
	var lsn Lesson
	if err := db.First(&lsn, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return lsn, ErrLessonNotFound
		}
		return lsn, err
	}
	return lsn, nil
}

// Create inserts a lesson into a course. The course must already exist.
func Create(db *gorm.DB, courseID uuid.UUID, input CreateInput) (Lesson, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.VideoURL) == "" {
		return Lesson{}, ErrMissingFields
	}

	if err := ensureCourseExists(db, courseID); err != nil {
		return Lesson{}, err
	}

	orderIndex := input.OrderIndex
	if orderIndex <= 0 {
		orderIndex = 1
	}

	lsn := Lesson{
		CourseID:    courseID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		VideoURL:    strings.TrimSpace(input.VideoURL),
		OrderIndex:  orderIndex,
		Attachments: datatypes.JSON("[]"),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lsn).Error; err != nil {
			return err
		}

		if len(input.AttachmentIDs) == 0 {
			return nil
		}

		return adoptAttachments(tx, &lsn, input.AttachmentIDs)
	})
	if err != nil {
		return Lesson{}, err
	}

	return lsn, nil
}

// attachmentRow mirrors the lesson_attachments columns needed for adoption.
// The table is addressed by name because the attachment feature imports this
// package for the denormalized list.
type attachmentRow struct {
	ID           uuid.UUID
	LessonID     uuid.UUID
	Filename     string
	OriginalName string
	ContentType  string
	FileSize     int64
	URL          string
}

// adoptAttachments moves existing attachment rows under the new lesson and
// rewrites the denormalized lists on both ends within the caller's
// transaction.
func adoptAttachments(tx *gorm.DB, lsn *Lesson, ids []uuid.UUID) error {
	metas := make([]AttachmentMeta, 0, len(ids))
	donors := make(map[uuid.UUID]map[uuid.UUID]struct{})

	for _, id := range ids {
		var row attachmentRow
		if err := tx.Table("lesson_attachments").Where("id = ?", id).Take(&row).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrAttachmentNotFound
			}
			return err
		}

		if row.LessonID != lsn.ID {
			moved, ok := donors[row.LessonID]
			if !ok {
				moved = make(map[uuid.UUID]struct{})
				donors[row.LessonID] = moved
			}
			moved[id] = struct{}{}
		}

		metas = append(metas, AttachmentMeta{
			ID:           row.ID,
			Filename:     row.Filename,
			OriginalName: row.OriginalName,
			ContentType:  row.ContentType,
			FileSize:     row.FileSize,
			URL:          row.URL,
		})
	}

	if err := tx.Table("lesson_attachments").
		Where("id IN ?", ids).
		Update("lesson_id", lsn.ID).Error; err != nil {
		return err
	}

	for donorID, moved := range donors {
		donor, err := Get(tx, donorID)
		if err != nil {
			if err == ErrLessonNotFound {
				continue
			}
			return err
		}

		existing, err := DecodeAttachmentMetas(donor.Attachments)
		if err != nil {
			return err
		}

		kept := existing[:0]
		for _, m := range existing {
			if _, gone := moved[m.ID]; !gone {
				kept = append(kept, m)
			}
		}

		if err := SetAttachmentMetas(tx, donorID, kept); err != nil {
			return err
		}
	}

	encoded, err := json.Marshal(metas)
	if err != nil {
		return err
	}
	lsn.Attachments = datatypes.JSON(encoded)

	return tx.Model(&Lesson{}).
		Where("id = ?", lsn.ID).
		Update("attachments", lsn.Attachments).Error
}

// Update replaces the lesson's mutable fields. All four must be present.
// Order indexes are advisory: no renumbering of sibling lessons happens here.
func Update(db *gorm.DB, id uuid.UUID, input UpdateInput) (Lesson, error) {
	if input.Title == nil || input.Description == nil || input.VideoURL == nil || input.OrderIndex == nil {
		return Lesson{}, ErrMissingUpdate
	}
	if strings.TrimSpace(*input.Title) == "" || strings.TrimSpace(*input.VideoURL) == "" {
		return Lesson{}, ErrMissingUpdate
	}

	lsn, err := Get(db, id)
	if err != nil {
		return lsn, err
	}

	lsn.Title = strings.TrimSpace(*input.Title)
	lsn.Description = strings.TrimSpace(*input.Description)
	lsn.VideoURL = strings.TrimSpace(*input.VideoURL)
	lsn.OrderIndex = *input.OrderIndex

	if err := db.Save(&lsn).Error; err != nil {
		return lsn, err
	}

	return lsn, nil
}

// Delete removes a lesson together with its attachment rows in one
// transaction. Progress rows pointing at the lesson go via the FK cascade.
func Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var lsn Lesson
		if err := tx.First(&lsn, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrLessonNotFound
			}
			return err
		}

		if err := tx.Exec("DELETE FROM lesson_attachments WHERE lesson_id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&lsn).Error
	})
}

func ensureCourseExists(db *gorm.DB, courseID uuid.UUID) error {
	var count int64
	if err := db.Table("courses").Where("id = ?", courseID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrCourseNotFound
	}
	return nil
}
