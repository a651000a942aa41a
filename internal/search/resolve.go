package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pfrederiksen/bom-oscars/internal/movie"
)

// ErrNoSelection is returned by a Resolver that declines to choose.
var ErrNoSelection = errors.New("no candidate selected")

// maxResolveAttempts bounds how often Select re-asks a resolver that keeps
// answering with an out-of-range index.
const maxResolveAttempts = 10

// Resolver chooses among ambiguous search results. It returns a zero-based
// index into candidates, or ErrNoSelection.
type Resolver interface {
	Resolve(ctx context.Context, query string, candidates []movie.Candidate) (int, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, query string, candidates []movie.Candidate) (int, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, query string, candidates []movie.Candidate) (int, error) {
	return f(ctx, query, candidates)
}

// AmbiguousError is returned when several candidates match loosely and no
// resolver is available.
type AmbiguousError struct {
	Query      string
	Candidates []movie.Candidate
}

func (e *AmbiguousError) Error() string {
	titles := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		titles = append(titles, c.Title)
	}
	return fmt.Sprintf("%q is ambiguous: %s", e.Query, strings.Join(titles, ", "))
}

// InvalidSelectionError is returned when a resolver keeps answering out of range.
type InvalidSelectionError struct {
	Query string
	Index int
	Count int
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("%q: selection %d out of range [0, %d)", e.Query, e.Index, e.Count)
}

// Select picks one candidate for query:
//  1. the first candidate whose title equals query exactly (case-sensitive)
//  2. with several candidates, the one chosen by resolver
//  3. a lone candidate, even if its title differs
func Select(ctx context.Context, query string, candidates []movie.Candidate, resolver Resolver) (movie.Candidate, error) {
	for _, c := range candidates {
		if c.Title == query {
			return c, nil
		}
	}

	switch len(candidates) {
	case 0:
		return movie.Candidate{}, ErrNoResults
	case 1:
		return candidates[0], nil
	}

	if resolver == nil {
		return movie.Candidate{}, &AmbiguousError{Query: query, Candidates: candidates}
	}

	var last int
	for attempt := 0; attempt < maxResolveAttempts; attempt++ {
		idx, err := resolver.Resolve(ctx, query, candidates)
		if err != nil {
			return movie.Candidate{}, err
		}
		if idx >= 0 && idx < len(candidates) {
			return candidates[idx], nil
		}
		last = idx
	}
	return movie.Candidate{}, &InvalidSelectionError{Query: query, Index: last, Count: len(candidates)}
}
