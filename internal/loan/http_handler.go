package loan

import (
	"net/http"

	"libraryapi/internal/book"
	"libraryapi/internal/httpx"
	"libraryapi/internal/listing"
	"libraryapi/internal/platform/clock"
	"libraryapi/internal/user"
)

type HTTPHandler struct {
	engine *Engine
}

func NewHTTPHandler(engine *Engine) *HTTPHandler {
	return &HTTPHandler{engine: engine}
}

type LoanResponse struct {
	ID         int64   `json:"id"`
	BookID     int64   `json:"book_id"`
	UserID     int64   `json:"user_id"`
	BorrowDate string  `json:"borrow_date"`
	ReturnDate *string `json:"return_date"`
}

func NewLoanResponse(l Loan) LoanResponse {
	return LoanResponse{
		ID:         l.ID,
		BookID:     l.BookID,
		UserID:     l.UserID,
		BorrowDate: l.BorrowDate.Format(clock.DateLayout),
		ReturnDate: clock.FormatDate(l.ReturnDate),
	}
}

func newLoanResponses(loans []Loan) []LoanResponse {
	out := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, NewLoanResponse(l))
	}
	return out
}

type AvailabilityResponse struct {
	BookID          int64 `json:"book_id"`
	AvailableCopies int   `json:"available_copies"`
}

// Borrow handles POST /v1/books/{id}/borrow
// @Summary Borrow a book
// @Description Open a loan of the book for the authenticated user
// @Tags loans
// @Produce json
// @Security Bearer
// @Param id path int true "Book ID"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/books/{id}/borrow [post]
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	bookID, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.InvalidID(w, r, "book id")
		return
	}
	l, err := h.engine.Borrow(r.Context(), httpx.UserIDFrom(r), bookID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, NewLoanResponse(l))
}

// Return handles POST /v1/books/{id}/return
// @Summary Return a book
// @Tags loans
// @Produce json
// @Security Bearer
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/books/{id}/return [post]
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	bookID, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.InvalidID(w, r, "book id")
		return
	}
	l, err := h.engine.Return(r.Context(), httpx.UserIDFrom(r), bookID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, NewLoanResponse(l), nil)
}

// Availability handles GET /v1/books/{id}/availability
func (h *HTTPHandler) Availability(w http.ResponseWriter, r *http.Request) {
	bookID, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.InvalidID(w, r, "book id")
		return
	}
	n, err := h.engine.AvailableCopies(r.Context(), bookID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, AvailabilityResponse{BookID: bookID, AvailableCopies: n}, nil)
}

// BookHistory handles GET /v1/books/{id}/history
func (h *HTTPHandler) BookHistory(w http.ResponseWriter, r *http.Request) {
	bookID, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.InvalidID(w, r, "book id")
		return
	}
	loans, err := h.engine.BookHistory(r.Context(), bookID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, newLoanResponses(loans), nil)
}

// MyHistory handles GET /v1/me/history
func (h *HTTPHandler) MyHistory(w http.ResponseWriter, r *http.Request) {
	h.writeUserHistory(w, r, httpx.UserIDFrom(r))
}

// UserHistory handles GET /v1/users/{id}/history
func (h *HTTPHandler) UserHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.InvalidID(w, r, "user id")
		return
	}
	h.writeUserHistory(w, r, userID)
}

func (h *HTTPHandler) writeUserHistory(w http.ResponseWriter, r *http.Request, userID int64) {
	loans, err := h.engine.UserHistory(r.Context(), userID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, newLoanResponses(loans), nil)
}

// MyDebts handles GET /v1/me/debts
func (h *HTTPHandler) MyDebts(w http.ResponseWriter, r *http.Request) {
	h.writeActiveBooks(w, r, httpx.UserIDFrom(r))
}

// UserDebts handles GET /v1/users/{id}/debts
func (h *HTTPHandler) UserDebts(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.InvalidID(w, r, "user id")
		return
	}
	h.writeActiveBooks(w, r, userID)
}

func (h *HTTPHandler) writeActiveBooks(w http.ResponseWriter, r *http.Request, userID int64) {
	books, err := h.engine.ActiveBooks(r.Context(), userID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, book.NewBookResponses(books), nil)
}

// Debtors handles GET /v1/debtors
// @Summary List debtors
// @Description Users holding at least one open loan
// @Tags loans
// @Produce json
// @Security Bearer
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(10)
// @Param sort_by query string false "email"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /v1/debtors [get]
func (h *HTTPHandler) Debtors(w http.ResponseWriter, r *http.Request) {
	p := listing.FromQuery(r.URL.Query())
	users, err := h.engine.Debtors(r.Context(), p)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, user.NewUserResponses(users), p.Meta())
}
