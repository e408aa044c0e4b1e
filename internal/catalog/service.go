package catalog

import (
	"context"
	"fmt"
	"time"

	"libraryapi/internal/listing"
	"libraryapi/internal/platform/clock"
)

type Service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, c clock.Clock) *Service {
	return &Service{repo: repo, clock: c}
}

// CreateAuthor rejects duplicate names before checking that birthdate is strictly
// before today.
func (s *Service) CreateAuthor(ctx context.Context, name string, birthdate time.Time) (Author, error) {
	exists, err := s.repo.AuthorNameExists(ctx, name)
	if err != nil {
		return Author{}, fmt.Errorf("check author name: %w", err)
	}
	if exists {
		return Author{}, ErrAuthorExists.WithMessage("There is already an author with name '%s'", name)
	}

	if !clock.DateOf(birthdate).Before(clock.Today(s.clock)) {
		return Author{}, ErrInvalidBirthdate
	}

	a := &Author{Name: name, Birthdate: clock.DateOf(birthdate)}
	if err := s.repo.CreateAuthor(ctx, a); err != nil {
		return Author{}, err
	}
	return *a, nil
}

func (s *Service) GetAuthor(ctx context.Context, id int64) (Author, error) {
	return s.repo.GetAuthor(ctx, id)
}

func (s *Service) ListAuthors(ctx context.Context, p listing.Params) ([]Author, error) {
	return s.repo.ListAuthors(ctx, p.Normalize())
}

func (s *Service) CreateGenre(ctx context.Context, name string) (Genre, error) {
	exists, err := s.repo.GenreNameExists(ctx, name)
	if err != nil {
		return Genre{}, fmt.Errorf("check genre name: %w", err)
	}
	if exists {
		return Genre{}, ErrGenreExists.WithMessage("There is already a genre with name '%s'", name)
	}

	g := &Genre{Name: name}
	if err := s.repo.CreateGenre(ctx, g); err != nil {
		return Genre{}, err
	}
	return *g, nil
}

func (s *Service) GetGenre(ctx context.Context, id int64) (Genre, error) {
	return s.repo.GetGenre(ctx, id)
}

func (s *Service) ListGenres(ctx context.Context, p listing.Params) ([]Genre, error) {
	return s.repo.ListGenres(ctx, p.Normalize())
}

// CreatePublisher validates the year before looking for a name collision.
func (s *Service) CreatePublisher(ctx context.Context, name string, establishedYear int) (Publisher, error) {
	if establishedYear > s.clock.Now().Year() {
		return Publisher{}, ErrInvalidEstablishedYear
	}

	exists, err := s.repo.PublisherNameExists(ctx, name)
	if err != nil {
		return Publisher{}, fmt.Errorf("check publisher name: %w", err)
	}
	if exists {
		return Publisher{}, ErrPublisherExists.WithMessage("There is already a publisher with name '%s'", name)
	}

	p := &Publisher{Name: name, EstablishedYear: establishedYear}
	if err := s.repo.CreatePublisher(ctx, p); err != nil {
		return Publisher{}, err
	}
	return *p, nil
}

func (s *Service) GetPublisher(ctx context.Context, id int64) (Publisher, error) {
	return s.repo.GetPublisher(ctx, id)
}

func (s *Service) ListPublishers(ctx context.Context, p listing.Params) ([]Publisher, error) {
	return s.repo.ListPublishers(ctx, p.Normalize())
}
