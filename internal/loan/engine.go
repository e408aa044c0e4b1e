package loan

import (
	"context"
	"errors"
	"log/slog"

	"libraryapi/internal/apperr"
	"libraryapi/internal/book"
	"libraryapi/internal/listing"
	"libraryapi/internal/platform/clock"
	"libraryapi/internal/platform/metrics"
	"libraryapi/internal/user"
)

// Engine opens and closes loans and answers availability and ledger queries.
type Engine struct {
	store  Store
	clock  clock.Clock
	logger *slog.Logger
}

func NewEngine(store Store, c clock.Clock, logger *slog.Logger) *Engine {
	return &Engine{store: store, clock: c, logger: logger}
}

// AvailableCopies is total copies minus open loans for the book.
func (e *Engine) AvailableCopies(ctx context.Context, bookID int64) (int, error) {
	total, open, err := e.store.Availability(ctx, bookID)
	if err != nil {
		return 0, err
	}
	return total - open, nil
}

// Borrow opens a loan dated today. The user row and then the book row are locked
// before anything is counted, so concurrent borrows of the same book or by the same
// user are serialized.
func (e *Engine) Borrow(ctx context.Context, userID, bookID int64) (Loan, error) {
	today := clock.Today(e.clock)

	var loan Loan
	err := e.store.InTx(ctx, func(tx Tx) error {
		s, err := readBorrowState(ctx, tx, userID, bookID)
		if err != nil {
			return err
		}
		if err := decideBorrow(s); err != nil {
			return err
		}
		loan, err = tx.Insert(ctx, userID, bookID, today)
		return err
	})
	if err != nil {
		if ae, ok := apperr.As(err); ok {
			metrics.BorrowRejectedTotal.WithLabelValues(ae.Code()).Inc()
		}
		return Loan{}, err
	}

	metrics.LoansBorrowedTotal.Inc()
	e.logger.InfoContext(ctx, "book borrowed", "loan_id", loan.ID, "user_id", userID, "book_id", bookID)
	return loan, nil
}

func readBorrowState(ctx context.Context, tx Tx, userID, bookID int64) (borrowState, error) {
	var s borrowState

	u, err := tx.LockBorrower(ctx, userID)
	switch {
	case errors.Is(err, user.ErrNotFound):
		return s, nil
	case err != nil:
		return s, err
	}
	s.userExists = true
	s.maxBooks = u.MaxBooks

	if s.userOpenLoans, err = tx.CountOpenByUser(ctx, userID); err != nil {
		return s, err
	}
	if s.userOpenLoans >= s.maxBooks {
		return s, nil
	}

	total, err := tx.LockBook(ctx, bookID)
	switch {
	case errors.Is(err, book.ErrNotFound):
		return s, nil
	case err != nil:
		return s, err
	}
	s.bookExists = true
	s.totalCopies = total

	if s.bookOpenLoans, err = tx.CountOpenByBook(ctx, bookID); err != nil {
		return s, err
	}
	if s.alreadyHolding, err = tx.HasOpen(ctx, userID, bookID); err != nil {
		return s, err
	}
	return s, nil
}

// Return closes the caller's open loan on the book with today's date.
func (e *Engine) Return(ctx context.Context, userID, bookID int64) (Loan, error) {
	today := clock.Today(e.clock)

	var loan Loan
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		loan, err = tx.CloseOpen(ctx, userID, bookID, today)
		return err
	})
	if err != nil {
		return Loan{}, err
	}

	metrics.LoansReturnedTotal.Inc()
	e.logger.InfoContext(ctx, "book returned", "loan_id", loan.ID, "user_id", userID, "book_id", bookID)
	return loan, nil
}

func (e *Engine) BookHistory(ctx context.Context, bookID int64) ([]Loan, error) {
	return e.store.ListByBook(ctx, bookID)
}

func (e *Engine) UserHistory(ctx context.Context, userID int64) ([]Loan, error) {
	return e.store.ListByUser(ctx, userID)
}

// ActiveBooks lists each book the user currently has on loan once.
func (e *Engine) ActiveBooks(ctx context.Context, userID int64) ([]book.Book, error) {
	return e.store.ActiveBooks(ctx, userID)
}

// Debtors lists users holding at least one open loan. Unknown sort keys fall back to
// id order.
func (e *Engine) Debtors(ctx context.Context, p listing.Params) ([]user.User, error) {
	return e.store.Debtors(ctx, p.Normalize())
}
