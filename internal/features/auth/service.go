package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/internal/features/user"
	"github.com/jusacademy/courses-server-go/internal/utils/jwt"
)

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

// dummyHash is compared against when the email is unknown so that the
// request costs the same as a wrong-password attempt. The caller must not
// be able to tell which check failed.
var dummyHash = func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), 10)
	return h
}()

// Login authenticates a user and issues a session token. Unknown emails and
// wrong passwords both fail with ErrInvalidCredentials.
func Login(db *gorm.DB, input LoginInput, jwtSecret string) (*LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	usr, err := user.GetByEmail(db, input.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(input.Password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !usr.ComparePassword(input.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(usr.ID, usr.Email, usr.Role, jwtSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: usr}, nil
}

// ChangePassword verifies the current password before storing a new one.
func ChangePassword(db *gorm.DB, usr user.User, currentPassword, newPassword string) error {
	if !usr.ComparePassword(currentPassword) {
		return ErrWrongPassword
	}

	return user.SetPassword(db, usr.ID, newPassword)
}
