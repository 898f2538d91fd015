// Package query defines the search request shape shared by every Store
// implementation, plus the validation that rejects bad input before it
// reaches storage.
package query

import (
	"fmt"
	"strings"

	"github.com/civicdata/npdb/pkg/npdb/internalerr"
)

const (
	// DefaultLimit is the page size used when the caller does not set one.
	DefaultLimit = 50
	// MaxLimit is the hard ceiling on page size.
	MaxLimit = 500
)

// Request is a compound organization search. All filters are optional and
// combine conjunctively; nil range pointers mean "unbounded on that side".
type Request struct {
	// Query is a free-text query against the full-text index
	// (EIN, name, legal name, city, state).
	Query string

	// State filters by exact state code.
	State string
	// City filters by case-insensitive substring.
	City string
	// NTEEPrefix filters by classification-code prefix.
	NTEEPrefix string

	// Inclusive bounds on the normalized amounts.
	MinRevenue *int64
	MaxRevenue *int64
	MinAssets  *int64
	MaxAssets  *int64

	Limit  int
	Offset int
}

// Validate normalizes pagination and rejects malformed filters. It must be
// called before a Request is handed to a store.
func (r *Request) Validate() error {
	if r.Limit == 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit < 1 || r.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", internalerr.ErrInvalidInput, MaxLimit, r.Limit)
	}
	if r.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative, got %d", internalerr.ErrInvalidInput, r.Offset)
	}
	if r.MinRevenue != nil && *r.MinRevenue < 0 {
		return fmt.Errorf("%w: min_revenue must not be negative", internalerr.ErrInvalidInput)
	}
	if r.MinAssets != nil && *r.MinAssets < 0 {
		return fmt.Errorf("%w: min_assets must not be negative", internalerr.ErrInvalidInput)
	}
	if r.MinRevenue != nil && r.MaxRevenue != nil && *r.MinRevenue > *r.MaxRevenue {
		return fmt.Errorf("%w: min_revenue %d exceeds max_revenue %d", internalerr.ErrInvalidInput, *r.MinRevenue, *r.MaxRevenue)
	}
	if r.MinAssets != nil && r.MaxAssets != nil && *r.MinAssets > *r.MaxAssets {
		return fmt.Errorf("%w: min_assets %d exceeds max_assets %d", internalerr.ErrInvalidInput, *r.MinAssets, *r.MaxAssets)
	}
	return nil
}

// MatchExpr converts the free-text query into an FTS5 MATCH expression.
// Each token is double-quoted so user input cannot inject FTS syntax or
// produce a parse error from stray operators.
func (r Request) MatchExpr() string {
	fields := strings.Fields(r.Query)
	if len(fields) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, `""`)
		quoted = append(quoted, `"`+f+`"`)
	}
	return strings.Join(quoted, " ")
}

// HasFullText reports whether the request carries a usable free-text query.
func (r Request) HasFullText() bool {
	return strings.TrimSpace(r.Query) != ""
}

// Tokens returns the whitespace-split free-text query terms.
func (r Request) Tokens() []string {
	return strings.Fields(r.Query)
}
