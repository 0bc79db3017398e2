package course

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/internal/features/attachment"
	"github.com/jusacademy/courses-server-go/internal/features/lesson"
	"github.com/jusacademy/courses-server-go/pkg/types"
)

// Course is a named collection of ordered lessons.
type Course struct {
	types.BaseModel

	Title       string  `gorm:"type:varchar(255);not null" json:"title"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Category    string  `gorm:"type:varchar(100);not null;index" json:"category"`
	ImageURL    *string `gorm:"type:text;column:image_url" json:"imageUrl,omitempty"`

	Lessons []lesson.Lesson `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"lessons"`
}

// TableName overrides the default table name.
func (Course) TableName() string { return "courses" }

// ensureLessons normalizes a nil association so the JSON rendering always
// carries a lessons array, never null or a missing key.
func (c *Course) ensureLessons() {
	if c.Lessons == nil {
		c.Lessons = []lesson.Lesson{}
	}
}

// Input carries course fields for create and update. Both operations require
// title, description and category.
type Input struct {
	Title       string
	Description string
	Category    string
	ImageURL    *string
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Category) == "" {
		return ErrMissingFields
	}
	return nil
}

// List returns all courses, newest first, without loading lessons.
func List(db *gorm.DB) ([]Course, error) {
	var courses []Course
	if err := db.Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}

	for i := range courses {
		courses[i].ensureLessons()
	}
	return courses, nil
}

// Get returns a course with its lessons ordered for playback.
func Get(db *gorm.DB, id uuid.UUID) (Course, error) {
	var crs Course
	err := db.Preload("Lessons", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("order_index ASC, created_at ASC")
	}).First(&crs, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return crs, ErrCourseNotFound
		}
		return crs, err
	}

	crs.ensureLessons()
	return crs, nil
}

// Create inserts a new course.
func Create(db *gorm.DB, input Input) (Course, error) {
	if err := input.validate(); err != nil {
		return Course{}, err
	}

	crs := Course{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		ImageURL:    input.ImageURL,
	}

	if err := db.Create(&crs).Error; err != nil {
		return crs, err
	}

	crs.ensureLessons()
	return crs, nil
}

// Update replaces the course fields. All three text fields are required,
// imageUrl keeps its stored value when omitted.
func Update(db *gorm.DB, id uuid.UUID, input Input) (Course, error) {
	if err := input.validate(); err != nil {
		return Course{}, err
	}

	var crs Course
	if err := db.First(&crs, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return crs, ErrCourseNotFound
		}
		return crs, err
	}

	crs.Title = strings.TrimSpace(input.Title)
	crs.Description = strings.TrimSpace(input.Description)
	crs.Category = strings.TrimSpace(input.Category)
	if input.ImageURL != nil {
		crs.ImageURL = input.ImageURL
	}

	if err := db.Save(&crs).Error; err != nil {
		return crs, err
	}

	crs.ensureLessons()
	return crs, nil
}

// Delete removes a course, its lessons and their attachments in one
// transaction so a crash cannot leave orphaned rows.
func Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var crs Course
		if err := tx.First(&crs, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrCourseNotFound
			}
			return err
		}

		lessonIDs := tx.Model(&lesson.Lesson{}).Select("id").Where("course_id = ?", id)
		if err := tx.Where("lesson_id IN (?)", lessonIDs).Delete(&attachment.Attachment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("course_id = ?", id).Delete(&lesson.Lesson{}).Error; err != nil {
			return err
		}

		return tx.Delete(&crs).Error
	})
}
