package user

import (
	"context"

	"libraryapi/internal/listing"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=user

type Repository interface {
	// Create fills in u.ID. A duplicate email yields ErrAlreadyExists.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, p listing.Params) ([]User, error)
}
