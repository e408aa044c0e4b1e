package book

import (
	"context"

	"libraryapi/internal/catalog"
	"libraryapi/internal/listing"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	Create(ctx context.Context, nb NewBook) (int64, error)
	Get(ctx context.Context, id int64) (Book, error)
	List(ctx context.Context, q Query, sort listing.SortColumns) ([]Book, error)
}

// CatalogReader resolves the entities a book references.
type CatalogReader interface {
	GetAuthor(ctx context.Context, id int64) (catalog.Author, error)
	GetGenre(ctx context.Context, id int64) (catalog.Genre, error)
	GetPublisher(ctx context.Context, id int64) (catalog.Publisher, error)
}
