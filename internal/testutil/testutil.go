// Package testutil holds helpers shared by handler and repository tests.
package testutil

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"libraryapi/db/migrations"
	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/platform/postgres"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DBTimeout is the per-query timeout repository tests construct stores with.
const DBTimeout = 5 * time.Second

// TestSecret is long enough to pass config validation.
const TestSecret = "test-secret-key-that-is-at-least-32-bytes"

// GenerateTestToken generates an access token valid for an hour.
func GenerateTestToken(secret string, userID int64) string {
	token, _, _ := crypto.GenerateToken(secret, userID, crypto.RoleUser, time.Hour)
	return token
}

// GenerateExpiredToken generates a token whose expiry is in the past.
func GenerateExpiredToken(secret string, userID int64) string {
	c := crypto.Claims{
		Sub:  strconv.FormatInt(userID, 10),
		Role: crypto.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "expired-jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	bodyBytes, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewRequestWithAuth creates a new HTTP request with a bearer token.
func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

// RecordHTTPResponse decodes the recorded JSON envelope.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]any
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// ErrorCode returns error.code from an error envelope, or "".
func (r RecordResponse) ErrorCode() string {
	e, ok := r.Body["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := e["code"].(string)
	return code
}

// PostgresPool connects to TEST_DB_DSN, migrates it and empties every table. Tests
// are skipped when the variable is unset or the database is unreachable.
func PostgresPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()
	pool, err := postgres.Open(ctx, dsn, 5*time.Second)
	if err != nil {
		t.Skipf("Skipping test: cannot connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	db := postgres.StdDB(pool)
	defer db.Close()
	if err := migrations.Up(ctx, db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	const truncate = `
	TRUNCATE token_revocations, borrowing_history, books, users, authors, genres, publishers
	RESTART IDENTITY CASCADE
	`
	if _, err := pool.Exec(ctx, truncate); err != nil {
		t.Fatalf("truncate test database: %v", err)
	}
	return pool
}

// InsertUser adds a user row directly and returns its id.
func InsertUser(t *testing.T, pool *pgxpool.Pool, email string, maxBooks int) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (email, password_hash, max_books) VALUES ($1, 'x', $2) RETURNING id`,
		email, maxBooks,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

// InsertBook adds a book with a fresh author, genre and publisher and returns its id.
func InsertBook(t *testing.T, pool *pgxpool.Pool, title string, copies int) int64 {
	t.Helper()
	ctx := context.Background()
	var authorID, genreID, publisherID, bookID int64
	steps := []struct {
		query string
		args  []any
		dst   *int64
	}{
		{`INSERT INTO authors (name, birthdate) VALUES ($1, '1950-01-01') RETURNING id`, []any{"Author of " + title}, &authorID},
		{`INSERT INTO genres (name) VALUES ($1) RETURNING id`, []any{"Genre of " + title}, &genreID},
		{`INSERT INTO publishers (name, established_year) VALUES ($1, 1990) RETURNING id`, []any{"Publisher of " + title}, &publisherID},
	}
	for _, s := range steps {
		if err := pool.QueryRow(ctx, s.query, s.args...).Scan(s.dst); err != nil {
			t.Fatalf("insert book reference: %v", err)
		}
	}
	err := pool.QueryRow(ctx, `
		INSERT INTO books (title, isbn, publish_date, author_id, genre_id, publisher_id, total_copies)
		VALUES ($1, '9780000000000', '2000-01-01', $2, $3, $4, $5)
		RETURNING id`,
		title, authorID, genreID, publisherID, copies,
	).Scan(&bookID)
	if err != nil {
		t.Fatalf("insert book: %v", err)
	}
	return bookID
}
