package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jusacademy/courses-server-go/pkg/types"
)

// Progress records that a user finished a lesson. One row per (user, lesson).
type Progress struct {
	types.BaseModel

	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_lesson,priority:1" json:"userId"`
	LessonID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_lesson,priority:2;index" json:"lessonId"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completedAt,omitempty"`
}

// TableName overrides the default table name.
func (Progress) TableName() string { return "user_progress" }

// MarkComplete upserts the (user, lesson) row with completed=true. Calling
// it twice leaves the same observable state; there is no uncomplete.
func MarkComplete(db *gorm.DB, userID, lessonID uuid.UUID) (Progress, error) {
	var count int64
	if err := db.Table("lessons").Where("id = ?", lessonID).Count(&count).Error; err != nil {
		return Progress{}, err
	}
	if count == 0 {
		return Progress{}, ErrLessonNotFound
	}

	now := time.Now()
	row := Progress{
		UserID:      userID,
		LessonID:    lessonID,
		Completed:   true,
		CompletedAt: &now,
	}

	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed":    true,
			"completed_at": now,
		}),
	}).Create(&row).Error
	if err != nil {
		return Progress{}, err
	}

	var saved Progress
	if err := db.First(&saved, "user_id = ? AND lesson_id = ?", userID, lessonID).Error; err != nil {
		return Progress{}, err
	}

	return saved, nil
}

// ListForUser returns every completed lesson for a user, most recent first.
func ListForUser(db *gorm.DB, userID uuid.UUID) ([]Progress, error) {
	var rows []Progress
	if err := db.Where("user_id = ? AND completed = ?", userID, true).
		Order("completed_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
