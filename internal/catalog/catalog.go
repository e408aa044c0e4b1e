// Package catalog holds the reference entities books point at: authors, genres and
// publishers.
package catalog

import (
	"time"

	"libraryapi/internal/apperr"
	"libraryapi/internal/listing"
)

var (
	ErrAuthorNotFound    = apperr.New(apperr.KindNotFound, "AUTHOR_NOT_FOUND", "Author not found")
	ErrGenreNotFound     = apperr.New(apperr.KindNotFound, "GENRE_NOT_FOUND", "Genre not found")
	ErrPublisherNotFound = apperr.New(apperr.KindNotFound, "PUBLISHER_NOT_FOUND", "Publisher not found")

	ErrAuthorExists    = apperr.New(apperr.KindAlreadyExists, "AUTHOR_EXISTS", "Author name must be unique")
	ErrGenreExists     = apperr.New(apperr.KindAlreadyExists, "GENRE_EXISTS", "Genre name must be unique")
	ErrPublisherExists = apperr.New(apperr.KindAlreadyExists, "PUBLISHER_EXISTS", "Publisher name must be unique")

	ErrInvalidBirthdate       = apperr.New(apperr.KindInvalidArgument, "INVALID_BIRTHDATE", "Birthdate must be before today")
	ErrInvalidEstablishedYear = apperr.New(apperr.KindInvalidArgument, "INVALID_ESTABLISHED_YEAR", "Established year must not be in the future")
)

type Author struct {
	ID        int64
	Name      string
	Birthdate time.Time
}

type Genre struct {
	ID   int64
	Name string
}

type Publisher struct {
	ID              int64
	Name            string
	EstablishedYear int
}

var (
	AuthorSort = listing.SortColumns{
		"name":      "name",
		"birthdate": "birthdate",
	}
	GenreSort = listing.SortColumns{
		"name": "name",
	}
	PublisherSort = listing.SortColumns{
		"name":             "name",
		"established_year": "established_year",
	}
)
