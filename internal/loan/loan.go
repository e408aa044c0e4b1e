// Package loan is the borrowing ledger and the rules deciding whether a loan may
// be opened.
package loan

import (
	"time"

	"libraryapi/internal/apperr"
	"libraryapi/internal/listing"
)

var (
	ErrLimitExceeded     = apperr.New(apperr.KindLimitExceeded, "BORROW_LIMIT_EXCEEDED", "User has reached the maximum number of borrowed books")
	ErrNoCopiesAvailable = apperr.New(apperr.KindNoCopiesAvailable, "NO_COPIES_AVAILABLE", "No copies of this book are available")
	ErrAlreadyBorrowed   = apperr.New(apperr.KindAlreadyExists, "ALREADY_BORROWED", "User already has an active borrowing of this book")
	ErrNoActiveBorrowing = apperr.New(apperr.KindNotFound, "NO_ACTIVE_BORROWING", "No active borrowing found for this book and user")
)

// Loan is one borrowing_history record. ReturnDate is nil while the loan is open.
type Loan struct {
	ID         int64
	BookID     int64
	UserID     int64
	BorrowDate time.Time
	ReturnDate *time.Time
}

func (l Loan) Open() bool {
	return l.ReturnDate == nil
}

var DebtorSort = listing.SortColumns{
	"email": "u.email",
}
