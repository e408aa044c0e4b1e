package book

import (
	"net/http"
	"strings"

	"libraryapi/internal/catalog"
	"libraryapi/internal/httpx"
	"libraryapi/internal/listing"
	"libraryapi/internal/platform/clock"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type BookResponse struct {
	ID          int64                     `json:"id"`
	Title       string                    `json:"title"`
	ISBN        string                    `json:"isbn"`
	PublishDate string                    `json:"publish_date"`
	TotalCopies int                       `json:"total_copies"`
	Author      catalog.AuthorResponse    `json:"author"`
	Genre       catalog.GenreResponse     `json:"genre"`
	Publisher   catalog.PublisherResponse `json:"publisher"`
}

func NewBookResponse(b Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		ISBN:        b.ISBN,
		PublishDate: b.PublishDate.Format(clock.DateLayout),
		TotalCopies: b.TotalCopies,
		Author:      catalog.NewAuthorResponse(b.Author),
		Genre:       catalog.NewGenreResponse(b.Genre),
		Publisher:   catalog.NewPublisherResponse(b.Publisher),
	}
}

func NewBookResponses(books []Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, NewBookResponse(b))
	}
	return out
}

type createBookReq struct {
	Title       string `json:"title" validate:"required,max=300"`
	ISBN        string `json:"isbn" validate:"required,isbn"`
	PublishDate string `json:"publish_date" validate:"required,date"`
	AuthorID    int64  `json:"author_id" validate:"required,gt=0"`
	GenreID     int64  `json:"genre_id" validate:"required,gt=0"`
	PublisherID int64  `json:"publisher_id" validate:"required,gt=0"`
	TotalCopies *int   `json:"total_copies"`
}

// Create handles POST /v1/books
// @Summary Create book
// @Description Create a book referencing an existing author, genre and publisher
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body createBookReq true "Book"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.ISBN = strings.TrimSpace(req.ISBN)
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	publishDate, _ := clock.ParseDate(req.PublishDate)
	copies := DefaultTotalCopies
	if req.TotalCopies != nil {
		copies = *req.TotalCopies
	}

	b, err := h.service.Create(r.Context(), NewBook{
		Title:       req.Title,
		ISBN:        req.ISBN,
		PublishDate: publishDate,
		AuthorID:    req.AuthorID,
		GenreID:     req.GenreID,
		PublisherID: req.PublisherID,
		TotalCopies: copies,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, NewBookResponse(b))
}

// Get handles GET /v1/books/{id}
// @Summary Get book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.InvalidID(w, r, "book id")
		return
	}
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, NewBookResponse(b), nil)
}

// List handles GET /v1/books
// @Summary List books
// @Tags books
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(10)
// @Param sort_by query string false "title, publish_date or author"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	p := listing.FromQuery(r.URL.Query())
	books, err := h.service.List(r.Context(), p)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, NewBookResponses(books), p.Meta())
}

// ListByAuthor handles GET /v1/authors/{id}/books
func (h *HTTPHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.InvalidID(w, r, "author id")
		return
	}
	p := listing.FromQuery(r.URL.Query())
	books, err := h.service.ListByAuthor(r.Context(), id, p)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, NewBookResponses(books), p.Meta())
}

// ListByGenre handles GET /v1/genres/{id}/books
func (h *HTTPHandler) ListByGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.InvalidID(w, r, "genre id")
		return
	}
	p := listing.FromQuery(r.URL.Query())
	books, err := h.service.ListByGenre(r.Context(), id, p)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, NewBookResponses(books), p.Meta())
}
