package users

import (
	"errors"
	"time"
)

// User is a registered account, identified by mobile number.
type User struct {
	Name         string
	Mobile       string
	PasswordHash string
	Age          int
	IsAdmin      bool
	IsVIP        bool
	RegisteredAt time.Time
	LastLoginAt  time.Time
	IsActive     bool
}

// Registration is the validated input for a new account. Name allows letters
// and spaces only, mobile follows the local 11-digit format, and an admin
// account additionally requires the configured admin key.
type Registration struct {
	Name     string `validate:"required,name_format"`
	Mobile   string `validate:"required,bd_mobile"`
	Password string `validate:"required,min=8"`
	Age      int    `validate:"gte=13,lte=120"`
	Admin    bool
	AdminKey string
}

// ErrInvalidAdminKey indicates an admin registration with the wrong key.
var ErrInvalidAdminKey = errors.New("users: invalid admin key")
