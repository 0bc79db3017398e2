package upload

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/pkg/types"
)

// UploadedImage holds a course image payload when the deployment stores
// uploads in the database rather than on disk.
type UploadedImage struct {
	types.BaseModel

	Filename     string `gorm:"type:varchar(512);not null" json:"filename"`
	OriginalName string `gorm:"type:varchar(512);not null;column:original_name" json:"originalName"`
	ContentType  string `gorm:"type:varchar(255);not null;column:content_type" json:"contentType"`
	FileSize     int64  `gorm:"not null;column:file_size" json:"fileSize"`
	FileData     []byte `gorm:"type:bytea;column:file_data" json:"-"`
}

// TableName overrides the default table name.
func (UploadedImage) TableName() string { return "uploaded_images" }

// StorageKey is where the payload lives relative to the uploads root when
// running in filesystem mode.
func (i *UploadedImage) StorageKey() string {
	return "images/" + i.Filename
}

// GetImage retrieves an uploaded image row by ID.
func GetImage(db *gorm.DB, id uuid.UUID) (UploadedImage, error) {
	var img UploadedImage
	if err := db.First(&img, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return img, ErrImageNotFound
		}
		return img, err
	}
	return img, nil
}
