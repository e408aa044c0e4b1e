package loan

import (
	"context"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/listing"
	"libraryapi/internal/user"
)

// Tx is the ledger as seen from inside one transaction.
type Tx interface {
	// LockBorrower returns user.ErrNotFound when the user is absent.
	LockBorrower(ctx context.Context, userID int64) (user.User, error)
	// LockBook returns the book's total copies, or book.ErrNotFound.
	LockBook(ctx context.Context, bookID int64) (int, error)
	CountOpenByUser(ctx context.Context, userID int64) (int, error)
	CountOpenByBook(ctx context.Context, bookID int64) (int, error)
	HasOpen(ctx context.Context, userID, bookID int64) (bool, error)
	Insert(ctx context.Context, userID, bookID int64, borrowDate time.Time) (Loan, error)
	// CloseOpen sets the return date on the open loan for the pair, or returns
	// ErrNoActiveBorrowing.
	CloseOpen(ctx context.Context, userID, bookID int64, returnDate time.Time) (Loan, error)
}

type Store interface {
	// InTx runs fn in a transaction that commits only when fn returns nil.
	InTx(ctx context.Context, fn func(Tx) error) error

	// Availability returns total copies and open loans for a book, or book.ErrNotFound.
	Availability(ctx context.Context, bookID int64) (total, open int, err error)
	ListByBook(ctx context.Context, bookID int64) ([]Loan, error)
	ListByUser(ctx context.Context, userID int64) ([]Loan, error)
	ActiveBooks(ctx context.Context, userID int64) ([]book.Book, error)
	Debtors(ctx context.Context, p listing.Params) ([]user.User, error)
}
