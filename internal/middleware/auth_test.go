package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/internal/features/user"
	"github.com/jusacademy/courses-server-go/internal/utils/jwt"
	"github.com/jusacademy/courses-server-go/pkg/types"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authMw := NewAuthMiddleware(db, testSecret, logger)

	router := gin.New()
	router.GET("/protected", authMw.AuthenticateToken(), func(c *gin.Context) {
		usr, _ := GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"email": usr.Email})
	})
	router.GET("/admin", append(authMw.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})...)

	return router, db
}

func createUser(t *testing.T, db *gorm.DB, email string, role types.Role) user.User {
	t.Helper()

	usr, err := user.Create(db, user.CreateInput{
		Email:    email,
		Password: "password123",
		Name:     "Test User",
		Role:     role,
	})
	require.NoError(t, err)
	return usr
}

func request(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateToken(t *testing.T) {
	router, db := setupRouter(t)
	usr := createUser(t, db, "member@academy.test", types.RoleMember)

	token, err := jwt.GenerateToken(usr.ID, usr.Email, usr.Role, testSecret)
	require.NoError(t, err)

	rec := request(router, "/protected", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), usr.Email)
}

func TestAuthenticateTokenRejections(t *testing.T) {
	router, db := setupRouter(t)
	usr := createUser(t, db, "member@academy.test", types.RoleMember)

	// No header.
	rec := request(router, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token.
	rec = request(router, "/protected", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token signed with a different secret.
	forged, err := jwt.GenerateToken(usr.ID, usr.Email, usr.Role, "other-secret")
	require.NoError(t, err)
	rec = request(router, "/protected", forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token for a deleted user.
	token, err := jwt.GenerateToken(usr.ID, usr.Email, usr.Role, testSecret)
	require.NoError(t, err)
	require.NoError(t, user.Delete(db, usr.ID))
	rec = request(router, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	router, db := setupRouter(t)

	member := createUser(t, db, "member@academy.test", types.RoleMember)
	admin := createUser(t, db, "admin@academy.test", types.RoleAdmin)

	memberToken, err := jwt.GenerateToken(member.ID, member.Email, member.Role, testSecret)
	require.NoError(t, err)
	adminToken, err := jwt.GenerateToken(admin.ID, admin.Email, admin.Role, testSecret)
	require.NoError(t, err)

	rec := request(router, "/admin", memberToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = request(router, "/admin", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}
