package search

import (
	"context"
	"errors"
	"fmt"
)

var ErrRateLimited = errors.New("rate limited")

type Result struct {
	Title   string
	URL     string
	Snippet string
}

type Searcher interface {
	Search(ctx context.Context, organization string) ([]Result, error)
	Name() string
}

// SearchError reports a failed lookup for one organization. StatusCode is 0
// when no HTTP response was received.
type SearchError struct {
	Organization string
	StatusCode   int
	Err          error
}

func (e *SearchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("search %q: status %d: %v", e.Organization, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("search %q: %v", e.Organization, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

func BuildQuery(organization string) string {
	return organization + " decarbonization goals net zero carbon neutral target date"
}
