package book

import (
	"context"

	"libraryapi/internal/listing"
	"libraryapi/internal/platform/clock"
)

// Service provides book-related business logic.
type Service struct {
	repo    Repository
	catalog CatalogReader
	clock   clock.Clock
}

func NewService(repo Repository, catalog CatalogReader, c clock.Clock) *Service {
	return &Service{repo: repo, catalog: catalog, clock: c}
}

// Create checks that the author, genre and publisher exist (in that order), then the
// copy count and publish date window, and persists the book.
func (s *Service) Create(ctx context.Context, nb NewBook) (Book, error) {
	if _, err := s.catalog.GetAuthor(ctx, nb.AuthorID); err != nil {
		return Book{}, err
	}
	if _, err := s.catalog.GetGenre(ctx, nb.GenreID); err != nil {
		return Book{}, err
	}
	if _, err := s.catalog.GetPublisher(ctx, nb.PublisherID); err != nil {
		return Book{}, err
	}

	if nb.TotalCopies < 0 {
		return Book{}, ErrInvalidCopies
	}
	published := clock.DateOf(nb.PublishDate)
	if published.Before(MinPublishDate) || published.After(clock.Today(s.clock)) {
		return Book{}, ErrInvalidPublishDate
	}
	nb.PublishDate = published

	id, err := s.repo.Create(ctx, nb)
	if err != nil {
		return Book{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, p listing.Params) ([]Book, error) {
	return s.repo.List(ctx, Query{Params: p.Normalize()}, ListSort)
}

// ListByAuthor fails with the author's not-found error when the author is absent.
func (s *Service) ListByAuthor(ctx context.Context, authorID int64, p listing.Params) ([]Book, error) {
	if _, err := s.catalog.GetAuthor(ctx, authorID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Query{Params: p.Normalize(), AuthorID: authorID}, AuthorBooksSort)
}

func (s *Service) ListByGenre(ctx context.Context, genreID int64, p listing.Params) ([]Book, error) {
	if _, err := s.catalog.GetGenre(ctx, genreID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Query{Params: p.Normalize(), GenreID: genreID}, GenreBooksSort)
}
