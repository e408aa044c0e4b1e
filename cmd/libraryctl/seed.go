package main

import (
	"context"
	"fmt"
	"log/slog"

	"libraryapi/internal/book"
	"libraryapi/internal/catalog"
	"libraryapi/internal/config"
	"libraryapi/internal/httpx"
	"libraryapi/internal/listing"
	"libraryapi/internal/platform/clock"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

type seedAuthor struct {
	Name      string `validate:"required"`
	Birthdate string `validate:"required,date"`
}

type seedPublisher struct {
	Name            string `validate:"required"`
	EstablishedYear int    `validate:"gte=0"`
}

type seedBook struct {
	Title       string `validate:"required"`
	ISBN        string `validate:"required,isbn"`
	PublishDate string `validate:"required,date"`
	Author      string `validate:"required"`
	Genre       string `validate:"required"`
	Publisher   string `validate:"required"`
	TotalCopies int    `validate:"gte=0"`
}

type seedData struct {
	Authors    []seedAuthor
	Genres     []string
	Publishers []seedPublisher
	Books      []seedBook
}

var fixture = seedData{
	Authors: []seedAuthor{
		{Name: "George Orwell", Birthdate: "1903-06-25"},
		{Name: "Jane Austen", Birthdate: "1775-12-16"},
		{Name: "Isaac Asimov", Birthdate: "1920-01-02"},
	},
	Genres: []string{"Dystopian", "Romance", "Science Fiction"},
	Publishers: []seedPublisher{
		{Name: "Secker & Warburg", EstablishedYear: 1935},
		{Name: "T. Egerton", EstablishedYear: 1780},
		{Name: "Gnome Press", EstablishedYear: 1948},
	},
	Books: []seedBook{
		{Title: "Nineteen Eighty-Four", ISBN: "9780451524935", PublishDate: "1949-06-08", Author: "George Orwell", Genre: "Dystopian", Publisher: "Secker & Warburg", TotalCopies: 3},
		{Title: "Animal Farm", ISBN: "9780451526342", PublishDate: "1945-08-17", Author: "George Orwell", Genre: "Dystopian", Publisher: "Secker & Warburg", TotalCopies: 2},
		{Title: "Homage to Catalonia", ISBN: "9780156421171", PublishDate: "1938-04-25", Author: "George Orwell", Genre: "Dystopian", Publisher: "Secker & Warburg", TotalCopies: 1},
		{Title: "Pride and Prejudice", ISBN: "9780141439518", PublishDate: "1813-01-28", Author: "Jane Austen", Genre: "Romance", Publisher: "T. Egerton", TotalCopies: 4},
		{Title: "Sense and Sensibility", ISBN: "9780141439662", PublishDate: "1811-10-30", Author: "Jane Austen", Genre: "Romance", Publisher: "T. Egerton", TotalCopies: 2},
		{Title: "Mansfield Park", ISBN: "9780141439808", PublishDate: "1814-07-01", Author: "Jane Austen", Genre: "Romance", Publisher: "T. Egerton", TotalCopies: 1},
		{Title: "Foundation", ISBN: "9780553293357", PublishDate: "1951-05-01", Author: "Isaac Asimov", Genre: "Science Fiction", Publisher: "Gnome Press", TotalCopies: 3},
		{Title: "Foundation and Empire", ISBN: "9780553293371", PublishDate: "1952-01-01", Author: "Isaac Asimov", Genre: "Science Fiction", Publisher: "Gnome Press", TotalCopies: 2},
		{Title: "Second Foundation", ISBN: "9780553293364", PublishDate: "1953-01-01", Author: "Isaac Asimov", Genre: "Science Fiction", Publisher: "Gnome Press", TotalCopies: 2},
		{Title: "I, Robot", ISBN: "9780553294385", PublishDate: "1950-12-02", Author: "Isaac Asimov", Genre: "Science Fiction", Publisher: "Gnome Press", TotalCopies: 0},
	},
}

// validate checks every entry and that each book names a known author, genre and
// publisher.
func (d seedData) validate() error {
	check := func(kind string, v any) error {
		if details := httpx.ValidateStruct(v); len(details) > 0 {
			return fmt.Errorf("invalid %s %+v: %s %s", kind, v, details[0].Field, details[0].Message)
		}
		return nil
	}

	authors := map[string]bool{}
	for _, a := range d.Authors {
		if err := check("author", a); err != nil {
			return err
		}
		authors[a.Name] = true
	}
	genres := map[string]bool{}
	for _, g := range d.Genres {
		genres[g] = true
	}
	publishers := map[string]bool{}
	for _, p := range d.Publishers {
		if err := check("publisher", p); err != nil {
			return err
		}
		publishers[p.Name] = true
	}
	for _, b := range d.Books {
		if err := check("book", b); err != nil {
			return err
		}
		if !authors[b.Author] || !genres[b.Genre] || !publishers[b.Publisher] {
			return fmt.Errorf("book %q references an unknown author, genre or publisher", b.Title)
		}
	}
	return nil
}

// seeder loads a seedData through the catalog and book services so the same
// rules apply as for records created over HTTP.
type seeder struct {
	catalog *catalog.Service
	books   *book.Service
}

func (s seeder) run(ctx context.Context, d seedData) (int, error) {
	authorIDs := make(map[string]int64, len(d.Authors))
	for _, a := range d.Authors {
		birthdate, err := clock.ParseDate(a.Birthdate)
		if err != nil {
			return 0, fmt.Errorf("author %q: %w", a.Name, err)
		}
		created, err := s.catalog.CreateAuthor(ctx, a.Name, birthdate)
		if err != nil {
			return 0, fmt.Errorf("author %q: %w", a.Name, err)
		}
		authorIDs[a.Name] = created.ID
	}

	genreIDs := make(map[string]int64, len(d.Genres))
	for _, name := range d.Genres {
		created, err := s.catalog.CreateGenre(ctx, name)
		if err != nil {
			return 0, fmt.Errorf("genre %q: %w", name, err)
		}
		genreIDs[name] = created.ID
	}

	publisherIDs := make(map[string]int64, len(d.Publishers))
	for _, p := range d.Publishers {
		created, err := s.catalog.CreatePublisher(ctx, p.Name, p.EstablishedYear)
		if err != nil {
			return 0, fmt.Errorf("publisher %q: %w", p.Name, err)
		}
		publisherIDs[p.Name] = created.ID
	}

	for _, b := range d.Books {
		publishDate, err := clock.ParseDate(b.PublishDate)
		if err != nil {
			return 0, fmt.Errorf("book %q: %w", b.Title, err)
		}
		_, err = s.books.Create(ctx, book.NewBook{
			Title:       b.Title,
			ISBN:        b.ISBN,
			PublishDate: publishDate,
			AuthorID:    authorIDs[b.Author],
			GenreID:     genreIDs[b.Genre],
			PublisherID: publisherIDs[b.Publisher],
			TotalCopies: b.TotalCopies,
		})
		if err != nil {
			return 0, fmt.Errorf("book %q: %w", b.Title, err)
		}
	}
	return len(d.Books), nil
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample catalog into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fixture.validate(); err != nil {
				return err
			}
			return withPool(cmd.Context(), func(pool *pgxpool.Pool, cfg config.DBConfig) error {
				c := clock.NewRealClock()
				catalogService := catalog.NewService(catalog.NewPostgresRepo(pool, cfg.Timeout), c)
				bookService := book.NewService(book.NewPostgresRepo(pool, cfg.Timeout), catalogService, c)

				existing, err := catalogService.ListAuthors(cmd.Context(), listing.Params{Limit: 1})
				if err != nil {
					return err
				}
				if len(existing) > 0 {
					slog.Info("catalog already has authors, skipping seed")
					return nil
				}

				n, err := seeder{catalog: catalogService, books: bookService}.run(cmd.Context(), fixture)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d books\n", n)
				return nil
			})
		},
	}
}
