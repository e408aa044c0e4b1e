package main

import (
	"context"
	"net/http"
	"time"

	"libraryapi/internal/auth"
	"libraryapi/internal/book"
	"libraryapi/internal/catalog"
	"libraryapi/internal/httpx"
	"libraryapi/internal/loan"
	"libraryapi/internal/user"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type handlers struct {
	auth    *auth.HTTPHandler
	users   *user.HTTPHandler
	catalog *catalog.HTTPHandler
	books   *book.HTTPHandler
	loans   *loan.HTTPHandler
}

type routerConfig struct {
	jwtSecret   string
	identities  httpx.IdentityResolver
	revocations httpx.RevocationChecker
	// ready reports whether dependencies can serve traffic.
	ready func(ctx context.Context) error
}

func newRouter(h handlers, cfg routerConfig) *http.ServeMux {
	authMW := httpx.AuthMiddleware(cfg.jwtSecret, cfg.identities, cfg.revocations)
	authed := func(hf http.HandlerFunc) http.Handler {
		return authMW(hf)
	}
	admin := func(hf http.HandlerFunc) http.Handler {
		return authMW(httpx.RequireAdmin(hf))
	}

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := cfg.ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.Handler())

	// auth
	router.HandleFunc("POST /v1/auth/register", h.auth.Register)
	router.HandleFunc("POST /v1/auth/login", h.auth.Login)
	router.Handle("POST /v1/auth/logout", authed(h.auth.Logout))

	// users
	router.Handle("GET /v1/me", authed(h.users.GetCurrentUser))
	router.Handle("GET /v1/me/history", authed(h.loans.MyHistory))
	router.Handle("GET /v1/me/debts", authed(h.loans.MyDebts))
	router.Handle("GET /v1/users", admin(h.users.List))
	router.Handle("GET /v1/users/{id}/history", admin(h.loans.UserHistory))
	router.Handle("GET /v1/users/{id}/debts", admin(h.loans.UserDebts))
	router.Handle("GET /v1/debtors", admin(h.loans.Debtors))

	// catalog
	router.HandleFunc("GET /v1/authors", h.catalog.ListAuthors)
	router.HandleFunc("GET /v1/authors/{id}", h.catalog.GetAuthor)
	router.HandleFunc("GET /v1/authors/{id}/books", h.books.ListByAuthor)
	router.Handle("POST /v1/authors", admin(h.catalog.CreateAuthor))
	router.HandleFunc("GET /v1/genres", h.catalog.ListGenres)
	router.HandleFunc("GET /v1/genres/{id}", h.catalog.GetGenre)
	router.HandleFunc("GET /v1/genres/{id}/books", h.books.ListByGenre)
	router.Handle("POST /v1/genres", admin(h.catalog.CreateGenre))
	router.HandleFunc("GET /v1/publishers", h.catalog.ListPublishers)
	router.HandleFunc("GET /v1/publishers/{id}", h.catalog.GetPublisher)
	router.Handle("POST /v1/publishers", admin(h.catalog.CreatePublisher))

	// books and loans
	router.HandleFunc("GET /v1/books", h.books.List)
	router.HandleFunc("GET /v1/books/{id}", h.books.Get)
	router.Handle("POST /v1/books", admin(h.books.Create))
	router.HandleFunc("GET /v1/books/{id}/availability", h.loans.Availability)
	router.Handle("GET /v1/books/{id}/history", admin(h.loans.BookHistory))
	router.Handle("POST /v1/books/{id}/borrow", authed(h.loans.Borrow))
	router.Handle("POST /v1/books/{id}/return", authed(h.loans.Return))

	return router
}
