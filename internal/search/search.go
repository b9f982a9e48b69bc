// Package search defines the knowledge lookup interface used by the web
// search skill, plus a Wikipedia-backed implementation.
package search

import (
	"context"
	"errors"
)

// ErrNotFound reports that the query matched no article.
var ErrNotFound = errors.New("search: no result")

// Lookup answers free-form queries with a short plain-text summary.
type Lookup interface {
	// Lookup returns a summary for the query. ErrNotFound when nothing
	// matched; any other error is a collaborator failure.
	Lookup(ctx context.Context, query string) (string, error)
}
