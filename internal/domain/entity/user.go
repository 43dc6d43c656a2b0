package entity

import (
	"strings"

	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
)

// User is the application account that owns customer tokens.
// Accounts live outside this module; only the reference and email are kept.
type User struct {
	ID    uint64
	Email string
}

// NewUser creates a user reference
func NewUser(id uint64, email string) (User, error) {
	if id == 0 {
		return User{}, errs.NewPinError("", "", "user ID must be positive")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return User{}, errs.NewPinError("", "", "user email is required")
	}
	return User{ID: id, Email: email}, nil
}
