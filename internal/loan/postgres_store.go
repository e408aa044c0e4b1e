package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/listing"
	"libraryapi/internal/platform/postgres"
	"libraryapi/internal/user"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const loanColumns = `id, book_id, user_id, borrow_date, return_date`

type PostgresStore struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresStore(db *pgxpool.Pool, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout}
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func scanLoan(row pgx.Row) (Loan, error) {
	var l Loan
	err := row.Scan(&l.ID, &l.BookID, &l.UserID, &l.BorrowDate, &l.ReturnDate)
	return l, err
}

func (s *PostgresStore) InTx(ctx context.Context, fn func(Tx) error) error {
	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return postgres.WithTx(timeoutCtx, s.db, func(tx pgx.Tx) error {
		return fn(&pgTx{db: tx})
	})
}

func (s *PostgresStore) Availability(ctx context.Context, bookID int64) (int, int, error) {
	const query = `
	SELECT b.total_copies,
	       (SELECT count(*) FROM borrowing_history h WHERE h.book_id = b.id AND h.return_date IS NULL)
	FROM books b
	WHERE b.id = $1
	`
	var total, open int
	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.db.QueryRow(timeoutCtx, query, bookID).Scan(&total, &open); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, book.ErrNotFound
		}
		return 0, 0, fmt.Errorf("book availability: %w", err)
	}
	return total, open, nil
}

func (s *PostgresStore) ListByBook(ctx context.Context, bookID int64) ([]Loan, error) {
	const query = `SELECT ` + loanColumns + ` FROM borrowing_history WHERE book_id = $1 ORDER BY id`
	return s.list(ctx, query, bookID)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID int64) ([]Loan, error) {
	const query = `SELECT ` + loanColumns + ` FROM borrowing_history WHERE user_id = $1 ORDER BY id`
	return s.list(ctx, query, userID)
}

func (s *PostgresStore) list(ctx context.Context, query string, arg int64) ([]Loan, error) {
	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.Query(timeoutCtx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	loans := []Loan{}
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func openLoans() *goqu.SelectDataset {
	return listing.Dialect.From("borrowing_history").Where(goqu.C("return_date").IsNull())
}

// activeBooksQuery selects each book the user holds an open loan on.
func activeBooksQuery(userID int64) *goqu.SelectDataset {
	held := openLoans().Select("book_id").Where(goqu.C("user_id").Eq(userID))
	return book.SelectJoined().
		Where(goqu.I("b.id").In(held)).
		Order(goqu.I("b.id").Asc())
}

// debtorsQuery selects users with at least one open loan, sorted and paged by p.
func debtorsQuery(p listing.Params) *goqu.SelectDataset {
	debtors := openLoans().Select("user_id")
	ds := listing.Dialect.From(goqu.T("users").As("u")).
		Select("u.id", "u.email", "u.password_hash", "u.is_admin", "u.max_books").
		Where(goqu.I("u.id").In(debtors))
	return listing.Apply(ds, p, DebtorSort, "u.id")
}

func (s *PostgresStore) ActiveBooks(ctx context.Context, userID int64) ([]book.Book, error) {
	ds := activeBooksQuery(userID)

	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return book.QueryJoined(timeoutCtx, s.db, ds)
}

func (s *PostgresStore) Debtors(ctx context.Context, p listing.Params) ([]user.User, error) {
	query, args, err := debtorsQuery(p).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build debtor query: %w", err)
	}

	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list debtors: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := user.ScanRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type pgTx struct {
	db postgres.DBTX
}

func (t *pgTx) LockBorrower(ctx context.Context, userID int64) (user.User, error) {
	const query = `
	SELECT id, email, password_hash, is_admin, max_books
	FROM users WHERE id = $1
	FOR UPDATE
	`
	u, err := user.ScanRow(t.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("lock user: %w", err)
	}
	return u, nil
}

func (t *pgTx) LockBook(ctx context.Context, bookID int64) (int, error) {
	const query = `SELECT total_copies FROM books WHERE id = $1 FOR UPDATE`
	var total int
	if err := t.db.QueryRow(ctx, query, bookID).Scan(&total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, book.ErrNotFound
		}
		return 0, fmt.Errorf("lock book: %w", err)
	}
	return total, nil
}

func (t *pgTx) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := t.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count open loans: %w", err)
	}
	return n, nil
}

func (t *pgTx) CountOpenByUser(ctx context.Context, userID int64) (int, error) {
	const query = `SELECT count(*) FROM borrowing_history WHERE user_id = $1 AND return_date IS NULL`
	return t.count(ctx, query, userID)
}

func (t *pgTx) CountOpenByBook(ctx context.Context, bookID int64) (int, error) {
	const query = `SELECT count(*) FROM borrowing_history WHERE book_id = $1 AND return_date IS NULL`
	return t.count(ctx, query, bookID)
}

func (t *pgTx) HasOpen(ctx context.Context, userID, bookID int64) (bool, error) {
	const query = `
	SELECT EXISTS(
		SELECT 1 FROM borrowing_history
		WHERE user_id = $1 AND book_id = $2 AND return_date IS NULL
	)
	`
	var found bool
	if err := t.db.QueryRow(ctx, query, userID, bookID).Scan(&found); err != nil {
		return false, fmt.Errorf("check open loan: %w", err)
	}
	return found, nil
}

func (t *pgTx) Insert(ctx context.Context, userID, bookID int64, borrowDate time.Time) (Loan, error) {
	const query = `
	INSERT INTO borrowing_history (book_id, user_id, borrow_date)
	VALUES ($1, $2, $3)
	RETURNING ` + loanColumns
	l, err := scanLoan(t.db.QueryRow(ctx, query, bookID, userID, borrowDate))
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return Loan{}, ErrAlreadyBorrowed
		}
		return Loan{}, fmt.Errorf("insert loan: %w", err)
	}
	return l, nil
}

func (t *pgTx) CloseOpen(ctx context.Context, userID, bookID int64, returnDate time.Time) (Loan, error) {
	const query = `
	UPDATE borrowing_history SET return_date = $3
	WHERE id = (
		SELECT id FROM borrowing_history
		WHERE user_id = $1 AND book_id = $2 AND return_date IS NULL
		ORDER BY id
		LIMIT 1
		FOR UPDATE
	)
	RETURNING ` + loanColumns
	l, err := scanLoan(t.db.QueryRow(ctx, query, userID, bookID, returnDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, ErrNoActiveBorrowing
		}
		return Loan{}, fmt.Errorf("close loan: %w", err)
	}
	return l, nil
}
