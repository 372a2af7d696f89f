package users

import "errors"

// User represents a user account. PasswordHash is a bcrypt digest and never
// leaves this package.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	DisplayName  string
	Role         string
	IsActive     bool
}

// UserInput carries the caller-supplied fields for create and update.
// Password is ignored on update when empty: the stored hash is kept.
type UserInput struct {
	Username    string `validate:"required"`
	Password    string
	DisplayName string `validate:"required"`
	Role        string `validate:"required"`
	IsActive    bool
}

// ErrDuplicateUsername indicates the username is already taken.
var ErrDuplicateUsername = errors.New("users: username already exists")

// ErrInvalidUser indicates the input failed validation.
var ErrInvalidUser = errors.New("users: invalid user")
