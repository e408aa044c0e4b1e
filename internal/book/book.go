package book

import (
	"time"

	"libraryapi/internal/apperr"
	"libraryapi/internal/catalog"
	"libraryapi/internal/listing"
)

var (
	ErrNotFound           = apperr.New(apperr.KindNotFound, "BOOK_NOT_FOUND", "Book not found")
	ErrInvalidCopies      = apperr.New(apperr.KindInvalidArgument, "INVALID_TOTAL_COPIES", "Number of copies must be a non-negative integer")
	ErrInvalidPublishDate = apperr.New(apperr.KindInvalidArgument, "INVALID_PUBLISH_DATE", "Publish date must be between 1500-01-01 and today")
)

// MinPublishDate is the earliest publish date accepted on create.
var MinPublishDate = time.Date(1500, time.January, 1, 0, 0, 0, 0, time.UTC)

const DefaultTotalCopies = 1

// Book is a catalog title with its author, genre and publisher resolved.
type Book struct {
	ID          int64
	Title       string
	ISBN        string
	PublishDate time.Time
	TotalCopies int
	Author      catalog.Author
	Genre       catalog.Genre
	Publisher   catalog.Publisher
}

// NewBook carries the fields needed to create a book; references are ids only.
type NewBook struct {
	Title       string
	ISBN        string
	PublishDate time.Time
	AuthorID    int64
	GenreID     int64
	PublisherID int64
	TotalCopies int
}

// Query selects a page of books, optionally narrowed to one author or genre.
type Query struct {
	Params   listing.Params
	AuthorID int64
	GenreID  int64
}

var (
	ListSort = listing.SortColumns{
		"title":        "b.title",
		"publish_date": "b.publish_date",
		"author":       "a.name",
	}
	AuthorBooksSort = listing.SortColumns{
		"title":        "b.title",
		"publish_date": "b.publish_date",
	}
	GenreBooksSort = ListSort
)
