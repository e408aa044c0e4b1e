package user

import (
	"libraryapi/internal/apperr"
	"libraryapi/internal/listing"
)

var (
	ErrNotFound      = apperr.New(apperr.KindNotFound, "USER_NOT_FOUND", "User not found")
	ErrAlreadyExists = apperr.New(apperr.KindAlreadyExists, "EMAIL_ALREADY_EXISTS", "Email already registered")
)

// DefaultMaxBooks is the open-loan limit given to newly registered users.
const DefaultMaxBooks = 5

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsAdmin      bool
	MaxBooks     int
}

var ListSort = listing.SortColumns{
	"email": "email",
}
