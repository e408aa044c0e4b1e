// Package listing carries offset/limit pagination and allow-listed sorting for list
// endpoints, and applies them to goqu select datasets.
package listing

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

// Dialect builds Postgres statements with numbered placeholders.
var Dialect = goqu.Dialect("postgres")

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Params struct {
	Offset int
	Limit  int
	SortBy string
	Desc   bool
}

// FromQuery reads offset, limit, sort_by and sort_order. Malformed numbers fall back to
// the defaults; sort_order other than "desc" means ascending.
func FromQuery(q url.Values) Params {
	offset, _ := strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{
		Offset: offset,
		Limit:  limit,
		SortBy: strings.TrimSpace(q.Get("sort_by")),
		Desc:   strings.EqualFold(q.Get("sort_order"), "desc"),
	}
}

// Normalize clamps a Params built in code the same way FromQuery does.
func (p Params) Normalize() Params {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// SortColumns maps public sort keys to qualified column names.
type SortColumns map[string]string

// Column resolves key against the allow-list. Unknown keys resolve to "", false and
// callers fall back to their default ordering without failing the request.
func (s SortColumns) Column(key string) (string, bool) {
	col, ok := s[key]
	return col, ok
}

// Apply adds ORDER BY (allow-listed key first, then fallback), OFFSET and LIMIT.
func Apply(ds *goqu.SelectDataset, p Params, allowed SortColumns, fallback string) *goqu.SelectDataset {
	p = p.Normalize()
	if col, ok := allowed.Column(p.SortBy); ok {
		if p.Desc {
			ds = ds.Order(goqu.I(col).Desc())
		} else {
			ds = ds.Order(goqu.I(col).Asc())
		}
		ds = ds.OrderAppend(goqu.I(fallback).Asc())
	} else {
		ds = ds.Order(goqu.I(fallback).Asc())
	}
	return ds.Offset(uint(p.Offset)).Limit(uint(p.Limit))
}

// Meta is the pagination block echoed back in list responses.
func (p Params) Meta() map[string]any {
	p = p.Normalize()
	return map[string]any{
		"offset": p.Offset,
		"limit":  p.Limit,
	}
}
