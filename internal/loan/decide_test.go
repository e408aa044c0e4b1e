package loan

import (
	"testing"

	"libraryapi/internal/book"
	"libraryapi/internal/user"

	"github.com/stretchr/testify/assert"
)

func TestDecideBorrow(t *testing.T) {
	ok := borrowState{
		userExists:  true,
		maxBooks:    5,
		bookExists:  true,
		totalCopies: 2,
	}

	tests := []struct {
		name    string
		mutate  func(s *borrowState)
		wantErr error
	}{
		{name: "allowed", mutate: func(*borrowState) {}},
		{name: "unknown user", mutate: func(s *borrowState) { s.userExists = false }, wantErr: user.ErrNotFound},
		{name: "unknown user wins over unknown book", mutate: func(s *borrowState) {
			s.userExists = false
			s.bookExists = false
		}, wantErr: user.ErrNotFound},
		{name: "limit reached", mutate: func(s *borrowState) { s.userOpenLoans = 5 }, wantErr: ErrLimitExceeded},
		{name: "limit wins over no copies", mutate: func(s *borrowState) {
			s.userOpenLoans = 5
			s.bookOpenLoans = 2
		}, wantErr: ErrLimitExceeded},
		{name: "unknown book", mutate: func(s *borrowState) { s.bookExists = false }, wantErr: book.ErrNotFound},
		{name: "no copies", mutate: func(s *borrowState) { s.bookOpenLoans = 2 }, wantErr: ErrNoCopiesAvailable},
		{name: "zero copies in stock", mutate: func(s *borrowState) { s.totalCopies = 0 }, wantErr: ErrNoCopiesAvailable},
		{name: "no copies wins over already holding", mutate: func(s *borrowState) {
			s.totalCopies = 1
			s.bookOpenLoans = 1
			s.alreadyHolding = true
		}, wantErr: ErrNoCopiesAvailable},
		{name: "already holding", mutate: func(s *borrowState) {
			s.bookOpenLoans = 1
			s.alreadyHolding = true
		}, wantErr: ErrAlreadyBorrowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ok
			tt.mutate(&s)
			err := decideBorrow(s)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
