package upload

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/internal/features/attachment"
	"github.com/jusacademy/courses-server-go/internal/features/lesson"
	"github.com/jusacademy/courses-server-go/pkg/blobstore"
	"github.com/jusacademy/courses-server-go/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db        *gorm.DB
	router    *gin.Engine
	uploadDir string
	lesson    lesson.Lesson
}

func setupEnv(t *testing.T, mode config.StorageMode) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&lesson.Lesson{}, &attachment.Attachment{}, &UploadedImage{}))

	lsn := lesson.Lesson{CourseID: uuid.New(), Title: "Intro", VideoURL: "https://cdn/v1", OrderIndex: 1}
	require.NoError(t, db.Create(&lsn).Error)

	uploadDir := t.TempDir()
	var store blobstore.Store = blobstore.NewDiskStore(uploadDir)
	if mode == config.StorageDatabase {
		store = blobstore.NewRowStore()
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(db, logger, store, mode)

	router := gin.New()
	router.POST("/api/upload", h.UploadImage)
	router.POST("/api/upload/attachment", h.UploadAttachment)
	router.GET("/api/images/*imagePath", h.ServeImage)

	return testEnv{db: db, router: router, uploadDir: uploadDir, lesson: lsn}
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	for key, value := range extra {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func doUpload(t *testing.T, env testEnv, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestUploadImageRejectsNonImages(t *testing.T) {
	env := setupEnv(t, config.StorageDisk)

	body, contentType := multipartBody(t, "image", "report.pdf", "application/pdf", []byte("%PDF"), nil)
	rec := doUpload(t, env, "/api/upload", body, contentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrNotAnImage.Error())
}

func TestUploadImageRejectsOversize(t *testing.T) {
	env := setupEnv(t, config.StorageDisk)

	body, contentType := multipartBody(t, "image", "huge.png", "image/png", bytes.Repeat([]byte("a"), maxImageSize+1), nil)
	rec := doUpload(t, env, "/api/upload", body, contentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrImageTooLarge.Error())

	// Rejected uploads never touch storage.
	entries, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadImageMissingFile(t *testing.T) {
	env := setupEnv(t, config.StorageDisk)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.Close())

	rec := doUpload(t, env, "/api/upload", body, writer.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadImageFilesystemRoundTrip(t *testing.T) {
	env := setupEnv(t, config.StorageDisk)

	payload := []byte("\x89PNG\r\n\x1a\nfake")
	body, contentType := multipartBody(t, "image", "cover.png", "image/png", payload, nil)
	rec := doUpload(t, env, "/api/upload", body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ImageURL string `json:"imageUrl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ImageURL)

	// No database row in filesystem mode, the file lives on disk.
	var count int64
	require.NoError(t, env.db.Model(&UploadedImage{}).Count(&count).Error)
	assert.Zero(t, count)

	entries, err := os.ReadDir(filepath.Join(env.uploadDir, "images"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	req := httptest.NewRequest(http.MethodGet, resp.ImageURL, nil)
	serveRec := httptest.NewRecorder()
	env.router.ServeHTTP(serveRec, req)

	require.Equal(t, http.StatusOK, serveRec.Code)
	assert.Equal(t, "image/png", serveRec.Header().Get("Content-Type"))
	assert.Equal(t, payload, serveRec.Body.Bytes())
}

func TestUploadImageDatabaseRoundTrip(t *testing.T) {
	env := setupEnv(t, config.StorageDatabase)

	payload := []byte("\x89PNG\r\n\x1a\nfake")
	body, contentType := multipartBody(t, "image", "cover.png", "image/png", payload, nil)
	rec := doUpload(t, env, "/api/upload", body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ImageURL string `json:"imageUrl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// Database mode references the row by ID.
	id, err := uuid.Parse(filepath.Base(resp.ImageURL))
	require.NoError(t, err)

	img, err := GetImage(env.db, id)
	require.NoError(t, err)
	assert.Equal(t, payload, img.FileData)

	req := httptest.NewRequest(http.MethodGet, resp.ImageURL, nil)
	serveRec := httptest.NewRecorder()
	env.router.ServeHTTP(serveRec, req)

	require.Equal(t, http.StatusOK, serveRec.Code)
	assert.Equal(t, payload, serveRec.Body.Bytes())
}

func TestUploadImageDerivesMissingExtension(t *testing.T) {
	env := setupEnv(t, config.StorageDisk)

	payload := []byte("\x89PNG\r\n\x1a\nfake")
	body, contentType := multipartBody(t, "image", "photo", "image/png", payload, nil)
	rec := doUpload(t, env, "/api/upload", body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ImageURL string `json:"imageUrl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// The stored name must not be a bare UUID or the serving route would
	// treat it as a database row reference.
	assert.True(t, strings.HasSuffix(resp.ImageURL, ".png"), resp.ImageURL)

	req := httptest.NewRequest(http.MethodGet, resp.ImageURL, nil)
	serveRec := httptest.NewRecorder()
	env.router.ServeHTTP(serveRec, req)

	require.Equal(t, http.StatusOK, serveRec.Code)
	assert.Equal(t, "image/png", serveRec.Header().Get("Content-Type"))
	assert.Equal(t, payload, serveRec.Body.Bytes())
}

func TestServeImageNotFound(t *testing.T) {
	env := setupEnv(t, config.StorageDisk)

	req := httptest.NewRequest(http.MethodGet, "/api/images/missing.png", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/images/"+uuid.NewString(), nil)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadAttachmentValidation(t *testing.T) {
	env := setupEnv(t, config.StorageDisk)

	// Disallowed content type.
	body, contentType := multipartBody(t, "file", "tool.exe", "application/x-msdownload", []byte("MZ"),
		map[string]string{"lessonId": env.lesson.ID.String()})
	rec := doUpload(t, env, "/api/upload/attachment", body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrTypeNotAllowed.Error())

	// Missing lesson reference.
	body, contentType = multipartBody(t, "file", "notes.pdf", "application/pdf", []byte("%PDF"), nil)
	rec = doUpload(t, env, "/api/upload/attachment", body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrLessonRequired.Error())

	// Unknown lesson.
	body, contentType = multipartBody(t, "file", "notes.pdf", "application/pdf", []byte("%PDF"),
		map[string]string{"lessonId": uuid.NewString()})
	rec = doUpload(t, env, "/api/upload/attachment", body, contentType)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Nothing should have landed on disk.
	_, err := os.ReadDir(filepath.Join(env.uploadDir, "attachments"))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadAttachmentFilesystem(t *testing.T) {
	env := setupEnv(t, config.StorageDisk)

	payload := []byte("%PDF fake content")
	body, contentType := multipartBody(t, "file", "lecture notes.pdf", "application/pdf", payload,
		map[string]string{"lessonId": env.lesson.ID.String()})
	rec := doUpload(t, env, "/api/upload/attachment", body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Attachment attachment.Attachment `json:"attachment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "lecture notes.pdf", resp.Attachment.OriginalName)
	assert.Equal(t, env.lesson.ID, resp.Attachment.LessonID)
	assert.Equal(t, "/api/attachments/"+resp.Attachment.ID.String(), resp.Attachment.URL)

	// Sanitized filename carries no spaces.
	assert.NotContains(t, resp.Attachment.Filename, " ")

	data, err := os.ReadFile(filepath.Join(env.uploadDir, "attachments", resp.Attachment.Filename))
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	// The lesson mirror was updated alongside the row.
	var lsn lesson.Lesson
	require.NoError(t, env.db.First(&lsn, "id = ?", env.lesson.ID).Error)
	metas, err := lesson.DecodeAttachmentMetas(lsn.Attachments)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, resp.Attachment.ID, metas[0].ID)
}

func TestUploadAttachmentDatabase(t *testing.T) {
	env := setupEnv(t, config.StorageDatabase)

	payload := []byte("%PDF fake content")
	body, contentType := multipartBody(t, "file", "notes.pdf", "application/pdf", payload,
		map[string]string{"lessonId": env.lesson.ID.String()})
	rec := doUpload(t, env, "/api/upload/attachment", body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Attachment attachment.Attachment `json:"attachment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	stored, err := attachment.Get(env.db, resp.Attachment.ID)
	require.NoError(t, err)
	assert.Equal(t, payload, stored.FileData)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"notes.pdf":          "notes.pdf",
		"my notes.pdf":       "my_notes.pdf",
		"../../etc/passwd":   "passwd",
		"we!rd#name?.txt":    "we_rd_name_.txt",
		"  padded.csv  ":     "padded.csv",
		"":                   "file",
		"résumé.pdf":         "r_sum_.pdf",
		"archive.tar.gz":     "archive.tar.gz",
		"/absolute/path.doc": "path.doc",
	}

	for input, want := range cases {
		assert.Equal(t, want, sanitizeFilename(input), "input %q", input)
	}
}
