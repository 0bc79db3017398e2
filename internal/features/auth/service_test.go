package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/internal/features/user"
	"github.com/jusacademy/courses-server-go/internal/utils/jwt"
	"github.com/jusacademy/courses-server-go/pkg/types"
)

const testSecret = "test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}))

	return db
}

func createUser(t *testing.T, db *gorm.DB, email, password string) user.User {
	t.Helper()

	usr, err := user.Create(db, user.CreateInput{
		Email:    email,
		Password: password,
		Name:     "Test User",
		Role:     types.RoleMember,
	})
	require.NoError(t, err)
	return usr
}

func TestLoginSuccess(t *testing.T) {
	db := setupTestDB(t)
	usr := createUser(t, db, "login@example.com", "password123")

	result, err := Login(db, LoginInput{Email: "login@example.com", Password: "password123"}, testSecret)
	require.NoError(t, err)

	assert.Equal(t, usr.ID, result.User.ID)

	claims, err := jwt.VerifyToken(result.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, claims.UserID)
	assert.Equal(t, usr.Email, claims.Email)
	assert.Equal(t, types.RoleMember, claims.Role)
}

// Unknown emails and wrong passwords must be indistinguishable to the caller.
func TestLoginFailuresAreIdentical(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "known@example.com", "password123")

	_, unknownErr := Login(db, LoginInput{Email: "unknown@example.com", Password: "password123"}, testSecret)
	_, wrongErr := Login(db, LoginInput{Email: "known@example.com", Password: "wrongpassword"}, testSecret)

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginMissingFields(t *testing.T) {
	db := setupTestDB(t)

	_, err := Login(db, LoginInput{Email: "", Password: "x"}, testSecret)
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = Login(db, LoginInput{Email: "x@y.com", Password: ""}, testSecret)
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	usr := createUser(t, db, "change@example.com", "password123")

	assert.ErrorIs(t, ChangePassword(db, usr, "wrongpassword", "newpassword456"), ErrWrongPassword)

	require.NoError(t, ChangePassword(db, usr, "password123", "newpassword456"))

	_, err := Login(db, LoginInput{Email: "change@example.com", Password: "newpassword456"}, testSecret)
	assert.NoError(t, err)

	_, err = Login(db, LoginInput{Email: "change@example.com", Password: "password123"}, testSecret)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
