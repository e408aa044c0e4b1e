package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraryapi/internal/listing"
	"libraryapi/internal/platform/postgres"

	"github.com/doug-martin/goqu/v9"
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

// SelectJoined selects books joined with their author, genre and publisher under the
// aliases b, a, g and p, in the column order ScanJoined expects.
func SelectJoined() *goqu.SelectDataset {
	return listing.Dialect.From(goqu.T("books").As("b")).
		Join(goqu.T("authors").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("b.author_id")))).
		Join(goqu.T("genres").As("g"), goqu.On(goqu.I("g.id").Eq(goqu.I("b.genre_id")))).
		Join(goqu.T("publishers").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("b.publisher_id")))).
		Select(
			"b.id", "b.title", "b.isbn", "b.publish_date", "b.total_copies",
			"a.id", "a.name", "a.birthdate",
			"g.id", "g.name",
			"p.id", "p.name", "p.established_year",
		)
}

func ScanJoined(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.ISBN, &b.PublishDate, &b.TotalCopies,
		&b.Author.ID, &b.Author.Name, &b.Author.Birthdate,
		&b.Genre.ID, &b.Genre.Name,
		&b.Publisher.ID, &b.Publisher.Name, &b.Publisher.EstablishedYear,
	)
	return b, err
}

// QueryJoined runs a dataset built from SelectJoined and scans every row.
func QueryJoined(ctx context.Context, db postgres.DBTX, ds *goqu.SelectDataset) ([]Book, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build book query: %w", err)
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := ScanJoined(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Create(ctx context.Context, nb NewBook) (int64, error) {
	const query = `
		INSERT INTO books (title, isbn, publish_date, author_id, genre_id, publisher_id, total_copies)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	var id int64
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		nb.Title, nb.ISBN, nb.PublishDate, nb.AuthorID, nb.GenreID, nb.PublisherID, nb.TotalCopies,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}
	return id, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Book, error) {
	query, args, err := SelectJoined().Where(goqu.I("b.id").Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return Book{}, fmt.Errorf("build book query: %w", err)
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := ScanJoined(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query, sort listing.SortColumns) ([]Book, error) {
	ds := SelectJoined()
	if q.AuthorID != 0 {
		ds = ds.Where(goqu.I("b.author_id").Eq(q.AuthorID))
	}
	if q.GenreID != 0 {
		ds = ds.Where(goqu.I("b.genre_id").Eq(q.GenreID))
	}
	ds = listing.Apply(ds, q.Params, sort, "b.id")

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return QueryJoined(timeoutCtx, r.db, ds)
}
