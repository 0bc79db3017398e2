package upload

import (
	"path/filepath"
	"strings"
)

const (
	maxImageSize      = 5 * 1024 * 1024
	maxAttachmentSize = 50 * 1024 * 1024
)

// allowedAttachmentTypes is the fixed allow-list for lesson attachments:
// documents, spreadsheets, presentations, plain text and archives.
var allowedAttachmentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/vnd.ms-powerpoint":                                     {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"text/plain":                   {},
	"text/csv":                     {},
	"application/zip":              {},
	"application/x-zip-compressed": {},
	"application/x-rar-compressed": {},
	"application/vnd.rar":          {},
}

func validateImage(contentType string, size int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}
	if size > maxImageSize {
		return ErrImageTooLarge
	}
	return nil
}

func validateAttachment(contentType string, size int64) error {
	if _, ok := allowedAttachmentTypes[contentType]; !ok {
		return ErrTypeNotAllowed
	}
	if size > maxAttachmentSize {
		return ErrFileTooLarge
	}
	return nil
}

// imageMIMETypes maps served file extensions to content types for the
// filesystem storage mode.
var imageMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

func mimeForFilename(name string) string {
	if mime, ok := imageMIMETypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mime
	}
	return "application/octet-stream"
}

// imageExtensions picks a stored extension for uploads whose original name
// carries none, keyed by the validated content type.
var imageExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/x-icon":  ".ico",
}

// imageExtension resolves the extension for a stored image name. Disk-mode
// keys must never be a bare UUID, which the serving route would read as a
// database row reference.
func imageExtension(contentType, filename string) string {
	if ext := strings.ToLower(filepath.Ext(sanitizeFilename(filename))); ext != "" {
		return ext
	}
	if ext, ok := imageExtensions[contentType]; ok {
		return ext
	}
	return ".img"
}

// sanitizeFilename strips path separators and whitespace so an uploaded name
// can never escape the storage directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)

	if name == "" || name == "." {
		name = "file"
	}
	return name
}
