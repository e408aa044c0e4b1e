package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraryapi/internal/listing"
	"libraryapi/internal/platform/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) exists(ctx context.Context, query string, arg any) (bool, error) {
	var found bool
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, arg).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}

func (r *PostgresRepo) CreateAuthor(ctx context.Context, a *Author) error {
	const query = `INSERT INTO authors (name, birthdate) VALUES ($1, $2) RETURNING id`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, a.Name, a.Birthdate).Scan(&a.ID); err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrAuthorExists
		}
		return fmt.Errorf("insert author: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetAuthor(ctx context.Context, id int64) (Author, error) {
	const query = `SELECT id, name, birthdate FROM authors WHERE id = $1`
	var a Author
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&a.ID, &a.Name, &a.Birthdate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Author{}, ErrAuthorNotFound
		}
		return Author{}, fmt.Errorf("get author: %w", err)
	}
	return a, nil
}

func (r *PostgresRepo) ListAuthors(ctx context.Context, p listing.Params) ([]Author, error) {
	ds := listing.Dialect.From("authors").Select("id", "name", "birthdate")
	query, args, err := listing.Apply(ds, p, AuthorSort, "id").Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build author list: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	out := []Author{}
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Birthdate); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) AuthorNameExists(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM authors WHERE name = $1)`, name)
}

func (r *PostgresRepo) CreateGenre(ctx context.Context, g *Genre) error {
	const query = `INSERT INTO genres (name) VALUES ($1) RETURNING id`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, g.Name).Scan(&g.ID); err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrGenreExists
		}
		return fmt.Errorf("insert genre: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetGenre(ctx context.Context, id int64) (Genre, error) {
	const query = `SELECT id, name FROM genres WHERE id = $1`
	var g Genre
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, id).Scan(&g.ID, &g.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Genre{}, ErrGenreNotFound
		}
		return Genre{}, fmt.Errorf("get genre: %w", err)
	}
	return g, nil
}

func (r *PostgresRepo) ListGenres(ctx context.Context, p listing.Params) ([]Genre, error) {
	ds := listing.Dialect.From("genres").Select("id", "name")
	query, args, err := listing.Apply(ds, p, GenreSort, "id").Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build genre list: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	out := []Genre{}
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GenreNameExists(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM genres WHERE name = $1)`, name)
}

func (r *PostgresRepo) CreatePublisher(ctx context.Context, p *Publisher) error {
	const query = `INSERT INTO publishers (name, established_year) VALUES ($1, $2) RETURNING id`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, p.Name, p.EstablishedYear).Scan(&p.ID); err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrPublisherExists
		}
		return fmt.Errorf("insert publisher: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetPublisher(ctx context.Context, id int64) (Publisher, error) {
	const query = `SELECT id, name, established_year FROM publishers WHERE id = $1`
	var p Publisher
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, id).Scan(&p.ID, &p.Name, &p.EstablishedYear); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Publisher{}, ErrPublisherNotFound
		}
		return Publisher{}, fmt.Errorf("get publisher: %w", err)
	}
	return p, nil
}

func (r *PostgresRepo) ListPublishers(ctx context.Context, lp listing.Params) ([]Publisher, error) {
	ds := listing.Dialect.From("publishers").Select("id", "name", "established_year")
	query, args, err := listing.Apply(ds, lp, PublisherSort, "id").Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build publisher list: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list publishers: %w", err)
	}
	defer rows.Close()

	out := []Publisher{}
	for rows.Next() {
		var p Publisher
		if err := rows.Scan(&p.ID, &p.Name, &p.EstablishedYear); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) PublisherNameExists(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM publishers WHERE name = $1)`, name)
}
