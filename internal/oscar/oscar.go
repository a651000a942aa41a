// Package oscar extracts per-category nominations from a movie's Box Office
// Mojo nomination history page.
package oscar

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/bom-oscars/internal/fetcher"
	"github.com/pfrederiksen/bom-oscars/internal/movie"
)

// labelPattern captures a category label ending in a lowercase letter and an
// optional "(WIN)" marker.
var labelPattern = regexp.MustCompile(`(.+[a-z])\s*(?:\((WIN)\))?`)

const chartLinkSelector = `a[href*="oscar/chart"]`

// LabelError reports a nomination link whose text does not match the label pattern.
type LabelError struct {
	Path  string
	Label string
}

func (e *LabelError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unrecognized nomination label %q", e.Label)
	}
	return fmt.Sprintf("%s: unrecognized nomination label %q", e.Path, e.Label)
}

// TitleNotFoundError reports a detail page without an anchor back to itself.
type TitleNotFoundError struct {
	Path string
}

func (e *TitleNotFoundError) Error() string {
	return fmt.Sprintf("%s: no anchor with the movie's detail path", e.Path)
}

// Fetcher retrieves a page as a parsed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Extractor reads nomination history pages.
type Extractor struct {
	fetcher Fetcher
	baseURL string
}

// NewExtractor creates an Extractor fetching pages from baseURL.
func NewExtractor(f Fetcher, baseURL string) *Extractor {
	return &Extractor{fetcher: f, baseURL: baseURL}
}

// DetailURL returns the nomination history URL for a detail path.
func DetailURL(baseURL, detailPath string) string {
	return fetcher.JoinURL(baseURL, "/oscar"+detailPath)
}

// Extract fetches the nomination page for detailPath and returns one record
// per nomination. A label that does not parse fails the whole extraction.
func (e *Extractor) Extract(ctx context.Context, detailPath string) ([]movie.Nomination, error) {
	doc, err := e.fetcher.Fetch(ctx, DetailURL(e.baseURL, detailPath))
	if err != nil {
		return nil, fmt.Errorf("fetching nominations for %s: %w", detailPath, err)
	}
	return parseNominations(doc, detailPath)
}

func parseNominations(doc *goquery.Document, detailPath string) ([]movie.Nomination, error) {
	title, ok := canonicalTitle(doc, detailPath)
	if !ok {
		return nil, &TitleNotFoundError{Path: detailPath}
	}

	links := doc.Find(chartLinkSelector)
	// The last chart link on the page is the generic "all years" link.
	if n := links.Length(); n > 0 {
		links = links.Slice(0, n-1)
	} else {
		return []movie.Nomination{}, nil
	}

	noms := make([]movie.Nomination, 0, links.Length())
	var parseErr error
	links.EachWithBreak(func(_ int, a *goquery.Selection) bool {
		category, win, err := ParseLabel(a.Text())
		if err != nil {
			parseErr = &LabelError{Path: detailPath, Label: a.Text()}
			return false
		}
		noms = append(noms, movie.Nomination{Title: title, Category: category, Win: win})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return noms, nil
}

// canonicalTitle returns the text of the anchor whose href equals detailPath.
func canonicalTitle(doc *goquery.Document, detailPath string) (string, bool) {
	var title string
	found := false
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if href, _ := a.Attr("href"); href == detailPath {
			title = strings.TrimSpace(a.Text())
			found = true
			return false
		}
		return true
	})
	return title, found
}

// ParseLabel splits a nomination label into its category and win flag.
// "Best Director (WIN)" yields ("Director", true); "Sound" yields ("Sound", false).
func ParseLabel(label string) (category string, win bool, err error) {
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return "", false, &LabelError{Label: label}
	}
	category = strings.TrimSpace(m[1])
	category = strings.TrimSpace(strings.TrimPrefix(category, "Best "))
	return category, m[2] == "WIN", nil
}
