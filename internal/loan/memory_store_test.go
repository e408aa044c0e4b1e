package loan

import (
	"context"
	"sort"
	"sync"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/listing"
	"libraryapi/internal/user"
)

// memoryStore serializes transactions with a single mutex and rolls the ledger
// back when the transaction function fails.
type memoryStore struct {
	mu     sync.Mutex
	users  map[int64]user.User
	books  map[int64]book.Book
	loans  []Loan
	nextID int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users: map[int64]user.User{},
		books: map[int64]book.Book{},
	}
}

func (m *memoryStore) addUser(id int64, email string, maxBooks int) {
	m.users[id] = user.User{ID: id, Email: email, MaxBooks: maxBooks}
}

func (m *memoryStore) addBook(id int64, copies int) {
	m.books[id] = book.Book{ID: id, Title: "book", TotalCopies: copies}
}

func (m *memoryStore) openLoans() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.loans {
		if l.Open() {
			n++
		}
	}
	return n
}

func (m *memoryStore) InTx(ctx context.Context, fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := append([]Loan(nil), m.loans...)
	next := m.nextID
	if err := fn(memTx{m}); err != nil {
		m.loans = snapshot
		m.nextID = next
		return err
	}
	return nil
}

func (m *memoryStore) countOpen(match func(Loan) bool) int {
	n := 0
	for _, l := range m.loans {
		if l.Open() && match(l) {
			n++
		}
	}
	return n
}

func (m *memoryStore) Availability(ctx context.Context, bookID int64) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[bookID]
	if !ok {
		return 0, 0, book.ErrNotFound
	}
	return b.TotalCopies, m.countOpen(func(l Loan) bool { return l.BookID == bookID }), nil
}

func (m *memoryStore) filter(match func(Loan) bool) []Loan {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Loan{}
	for _, l := range m.loans {
		if match(l) {
			out = append(out, l)
		}
	}
	return out
}

func (m *memoryStore) ListByBook(ctx context.Context, bookID int64) ([]Loan, error) {
	return m.filter(func(l Loan) bool { return l.BookID == bookID }), nil
}

func (m *memoryStore) ListByUser(ctx context.Context, userID int64) ([]Loan, error) {
	return m.filter(func(l Loan) bool { return l.UserID == userID }), nil
}

func (m *memoryStore) ActiveBooks(ctx context.Context, userID int64) ([]book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[int64]bool{}
	out := []book.Book{}
	for _, l := range m.loans {
		if l.Open() && l.UserID == userID && !seen[l.BookID] {
			seen[l.BookID] = true
			out = append(out, m.books[l.BookID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) Debtors(ctx context.Context, p listing.Params) ([]user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[int64]bool{}
	out := []user.User{}
	for _, l := range m.loans {
		if l.Open() && !seen[l.UserID] {
			seen[l.UserID] = true
			out = append(out, m.users[l.UserID])
		}
	}

	_, byEmail := DebtorSort.Column(p.SortBy)
	sort.Slice(out, func(i, j int) bool {
		if byEmail && out[i].Email != out[j].Email {
			if p.Desc {
				return out[i].Email > out[j].Email
			}
			return out[i].Email < out[j].Email
		}
		return out[i].ID < out[j].ID
	})

	if p.Offset >= len(out) {
		return []user.User{}, nil
	}
	out = out[p.Offset:]
	if len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

type memTx struct {
	m *memoryStore
}

func (t memTx) LockBorrower(ctx context.Context, userID int64) (user.User, error) {
	u, ok := t.m.users[userID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (t memTx) LockBook(ctx context.Context, bookID int64) (int, error) {
	b, ok := t.m.books[bookID]
	if !ok {
		return 0, book.ErrNotFound
	}
	return b.TotalCopies, nil
}

func (t memTx) CountOpenByUser(ctx context.Context, userID int64) (int, error) {
	return t.m.countOpen(func(l Loan) bool { return l.UserID == userID }), nil
}

func (t memTx) CountOpenByBook(ctx context.Context, bookID int64) (int, error) {
	return t.m.countOpen(func(l Loan) bool { return l.BookID == bookID }), nil
}

func (t memTx) HasOpen(ctx context.Context, userID, bookID int64) (bool, error) {
	n := t.m.countOpen(func(l Loan) bool { return l.UserID == userID && l.BookID == bookID })
	return n > 0, nil
}

func (t memTx) Insert(ctx context.Context, userID, bookID int64, borrowDate time.Time) (Loan, error) {
	t.m.nextID++
	l := Loan{ID: t.m.nextID, BookID: bookID, UserID: userID, BorrowDate: borrowDate}
	t.m.loans = append(t.m.loans, l)
	return l, nil
}

func (t memTx) CloseOpen(ctx context.Context, userID, bookID int64, returnDate time.Time) (Loan, error) {
	for i, l := range t.m.loans {
		if l.Open() && l.UserID == userID && l.BookID == bookID {
			d := returnDate
			t.m.loans[i].ReturnDate = &d
			return t.m.loans[i], nil
		}
	}
	return Loan{}, ErrNoActiveBorrowing
}
