package loan

import (
	"libraryapi/internal/book"
	"libraryapi/internal/user"
)

// borrowState is everything the borrow rule looks at, read under the user and
// book row locks.
type borrowState struct {
	userExists     bool
	maxBooks       int
	userOpenLoans  int
	bookExists     bool
	totalCopies    int
	bookOpenLoans  int
	alreadyHolding bool
}

func (s borrowState) availableCopies() int {
	return s.totalCopies - s.bookOpenLoans
}

// decideBorrow applies the borrow checks in order; the first failing check wins.
func decideBorrow(s borrowState) error {
	if !s.userExists {
		return user.ErrNotFound
	}
	if s.userOpenLoans >= s.maxBooks {
		return ErrLimitExceeded
	}
	if !s.bookExists {
		return book.ErrNotFound
	}
	if s.availableCopies() <= 0 {
		return ErrNoCopiesAvailable
	}
	if s.alreadyHolding {
		return ErrAlreadyBorrowed
	}
	return nil
}
