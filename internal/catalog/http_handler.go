package catalog

import (
	"net/http"
	"strings"

	"libraryapi/internal/httpx"
	"libraryapi/internal/listing"
	"libraryapi/internal/platform/clock"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

type AuthorResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Birthdate string `json:"birthdate"`
}

func NewAuthorResponse(a Author) AuthorResponse {
	return AuthorResponse{ID: a.ID, Name: a.Name, Birthdate: a.Birthdate.Format(clock.DateLayout)}
}

type GenreResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewGenreResponse(g Genre) GenreResponse {
	return GenreResponse{ID: g.ID, Name: g.Name}
}

type PublisherResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	EstablishedYear int    `json:"established_year"`
}

func NewPublisherResponse(p Publisher) PublisherResponse {
	return PublisherResponse{ID: p.ID, Name: p.Name, EstablishedYear: p.EstablishedYear}
}

type createAuthorReq struct {
	Name      string `json:"name" validate:"required,max=200"`
	Birthdate string `json:"birthdate" validate:"required,date"`
}

// CreateAuthor handles POST /v1/authors
// @Summary Create author
// @Tags authors
// @Accept json
// @Produce json
// @Security Bearer
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/authors [post]
func (h *HTTPHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	var req createAuthorReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}
	birthdate, _ := clock.ParseDate(req.Birthdate)

	a, err := h.svc.CreateAuthor(r.Context(), req.Name, birthdate)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, NewAuthorResponse(a))
}

// GetAuthor handles GET /v1/authors/{id}
// @Summary Get author
// @Tags authors
// @Produce json
// @Param id path int true "Author ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/authors/{id} [get]
func (h *HTTPHandler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.InvalidID(w, r, "author id")
		return
	}
	a, err := h.svc.GetAuthor(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, NewAuthorResponse(a), nil)
}

// ListAuthors handles GET /v1/authors
// @Summary List authors
// @Tags authors
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(10)
// @Param sort_by query string false "name or birthdate"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/authors [get]
func (h *HTTPHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	p := listing.FromQuery(r.URL.Query())
	authors, err := h.svc.ListAuthors(r.Context(), p)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	out := make([]AuthorResponse, 0, len(authors))
	for _, a := range authors {
		out = append(out, NewAuthorResponse(a))
	}
	httpx.JSONSuccess(w, r, out, p.Meta())
}

type createGenreReq struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateGenre handles POST /v1/genres
// @Summary Create genre
// @Tags genres
// @Accept json
// @Produce json
// @Security Bearer
// @Success 201 {object} httpx.SuccessResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/genres [post]
func (h *HTTPHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req createGenreReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	g, err := h.svc.CreateGenre(r.Context(), req.Name)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, NewGenreResponse(g))
}

// GetGenre handles GET /v1/genres/{id}
func (h *HTTPHandler) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.InvalidID(w, r, "genre id")
		return
	}
	g, err := h.svc.GetGenre(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, NewGenreResponse(g), nil)
}

// ListGenres handles GET /v1/genres
func (h *HTTPHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	p := listing.FromQuery(r.URL.Query())
	genres, err := h.svc.ListGenres(r.Context(), p)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	out := make([]GenreResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, NewGenreResponse(g))
	}
	httpx.JSONSuccess(w, r, out, p.Meta())
}

type createPublisherReq struct {
	Name            string `json:"name" validate:"required,max=200"`
	EstablishedYear *int   `json:"established_year" validate:"required"`
}

// CreatePublisher handles POST /v1/publishers
// @Summary Create publisher
// @Tags publishers
// @Accept json
// @Produce json
// @Security Bearer
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/publishers [post]
func (h *HTTPHandler) CreatePublisher(w http.ResponseWriter, r *http.Request) {
	var req createPublisherReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	p, err := h.svc.CreatePublisher(r.Context(), req.Name, *req.EstablishedYear)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, NewPublisherResponse(p))
}

// GetPublisher handles GET /v1/publishers/{id}
func (h *HTTPHandler) GetPublisher(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.InvalidID(w, r, "publisher id")
		return
	}
	p, err := h.svc.GetPublisher(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, NewPublisherResponse(p), nil)
}

// ListPublishers handles GET /v1/publishers
func (h *HTTPHandler) ListPublishers(w http.ResponseWriter, r *http.Request) {
	p := listing.FromQuery(r.URL.Query())
	publishers, err := h.svc.ListPublishers(r.Context(), p)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	out := make([]PublisherResponse, 0, len(publishers))
	for _, pub := range publishers {
		out = append(out, NewPublisherResponse(pub))
	}
	httpx.JSONSuccess(w, r, out, p.Meta())
}
