package search

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/bom-oscars/internal/fetcher"
	"github.com/pfrederiksen/bom-oscars/internal/movie"
)

const resultsMarker = "Movie Matches"

// singleRowTitleOffset is the position, among all elements nested in a lone
// result row, of the anchor that carries the movie title. Pages with a single
// result lay out the row differently from multi-result pages.
const singleRowTitleOffset = 6

var moviePathPattern = regexp.MustCompile(`/movies`)

// ErrNoResults is returned when a search page lists no movie matches.
var ErrNoResults = errors.New("no movie matches")

// Fetcher retrieves a page as a parsed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Matcher searches for movies and resolves the result to one candidate.
type Matcher struct {
	fetcher  Fetcher
	baseURL  string
	resolver Resolver
}

// NewMatcher creates a Matcher. resolver may be nil, in which case ambiguous
// results fail with an *AmbiguousError.
func NewMatcher(f Fetcher, baseURL string, resolver Resolver) *Matcher {
	return &Matcher{fetcher: f, baseURL: baseURL, resolver: resolver}
}

// SearchURL returns the search page URL for a free-text query.
func SearchURL(baseURL, query string) string {
	return fetcher.JoinURL(baseURL, "/search/?q="+url.QueryEscape(query))
}

// Search returns the movie candidates listed for title.
func (m *Matcher) Search(ctx context.Context, title string) ([]movie.Candidate, error) {
	doc, err := m.fetcher.Fetch(ctx, SearchURL(m.baseURL, title))
	if err != nil {
		return nil, fmt.Errorf("searching for %q: %w", title, err)
	}
	return parseResults(doc)
}

// Find searches for title and selects one candidate.
func (m *Matcher) Find(ctx context.Context, title string) (movie.Candidate, error) {
	candidates, err := m.Search(ctx, title)
	if err != nil {
		return movie.Candidate{}, err
	}
	return Select(ctx, title, candidates, m.resolver)
}

func parseResults(doc *goquery.Document) ([]movie.Candidate, error) {
	table := elementAfterText(doc, resultsMarker)
	if table == nil {
		return nil, ErrNoResults
	}

	rows := table.Find("tr")
	if rows.Length() > 0 {
		rows = rows.Slice(1, rows.Length()) // header
	}

	switch rows.Length() {
	case 0:
		return nil, ErrNoResults
	case 1:
		nested := rows.First().Find("*")
		if nested.Length() <= singleRowTitleOffset {
			return nil, fmt.Errorf("single search result has %d nested elements, want more than %d",
				nested.Length(), singleRowTitleOffset)
		}
		a := nested.Eq(singleRowTitleOffset)
		href, _ := a.Attr("href")
		return []movie.Candidate{{Title: strings.TrimSpace(a.Text()), Path: href}}, nil
	}

	candidates := make([]movie.Candidate, 0, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		links := row.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			return moviePathPattern.MatchString(href)
		})
		if links.Length() == 0 {
			return
		}

		// Rows with a poster thumbnail link the title a second time.
		title := links.First()
		if links.Length() == 2 {
			title = links.Eq(1)
		}
		text := strings.TrimSpace(title.Text())
		if text == "Showtimes" {
			return
		}
		href, _ := title.Attr("href")
		candidates = append(candidates, movie.Candidate{Title: text, Path: href})
	})

	return candidates, nil
}

// elementAfterText returns the first element following, in document order,
// a text node that contains text.
func elementAfterText(doc *goquery.Document, text string) *goquery.Selection {
	var (
		seen  bool
		found *html.Node
	)

	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if seen && n.Type == html.ElementNode {
			found = n
			return true
		}
		if n.Type == html.TextNode && strings.Contains(n.Data, text) {
			seen = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	for _, root := range doc.Nodes {
		if walk(root) {
			break
		}
	}

	if found == nil {
		return nil
	}
	return doc.FindNodes(found)
}
