package catalog

import (
	"context"

	"libraryapi/internal/listing"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=catalog

// Repository defines the contract for catalog data storage. Create methods return the
// package's Err*Exists sentinel when the name is already taken.
type Repository interface {
	CreateAuthor(ctx context.Context, a *Author) error
	GetAuthor(ctx context.Context, id int64) (Author, error)
	ListAuthors(ctx context.Context, p listing.Params) ([]Author, error)
	AuthorNameExists(ctx context.Context, name string) (bool, error)

	CreateGenre(ctx context.Context, g *Genre) error
	GetGenre(ctx context.Context, id int64) (Genre, error)
	ListGenres(ctx context.Context, p listing.Params) ([]Genre, error)
	GenreNameExists(ctx context.Context, name string) (bool, error)

	CreatePublisher(ctx context.Context, p *Publisher) error
	GetPublisher(ctx context.Context, id int64) (Publisher, error)
	ListPublishers(ctx context.Context, p listing.Params) ([]Publisher, error)
	PublisherNameExists(ctx context.Context, name string) (bool, error)
}
