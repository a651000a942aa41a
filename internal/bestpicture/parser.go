package bestpicture

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/bom-oscars/internal/fetcher"
	"github.com/pfrederiksen/bom-oscars/internal/logger"
	"github.com/pfrederiksen/bom-oscars/internal/movie"
)

// Marker is the exact text node that precedes the listing table.
const Marker = "BEST PICTURE"

// ColumnCount is the number of cells a listing row must have.
const ColumnCount = 11

// Cell positions within a listing row. Studio, post-award and total gross
// columns are part of the contract but not read.
var columns = struct {
	Title             int
	Studio            int
	PreNomGross       int
	PreNomTheatres    int
	PostNomGross      int
	PostNomTheatres   int
	PostAwardGross    int
	PostAwardTheatres int
	TotalGross        int
	Release           int
}{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

var detailPathPattern = regexp.MustCompile(`/oscar(.+)`)

// ColumnCountError reports a listing row with the wrong number of cells.
type ColumnCountError struct {
	Year int
	Row  int
	Got  int
}

func (e *ColumnCountError) Error() string {
	return fmt.Sprintf("year %d row %d: got %d cells, want %d", e.Year, e.Row, e.Got, ColumnCount)
}

// MissingLinkError reports a listing row whose title cell has no /oscar link.
type MissingLinkError struct {
	Year  int
	Row   int
	Title string
}

func (e *MissingLinkError) Error() string {
	return fmt.Sprintf("year %d row %d: no /oscar link for %q", e.Year, e.Row, e.Title)
}

// Fetcher retrieves a page as a parsed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Options controls how malformed rows are handled.
type Options struct {
	// Lenient drops rows with the wrong cell count or no detail link
	// instead of failing the year.
	Lenient bool
	// KeepUnlinked emits rows without an /oscar link with an empty
	// DetailPath so the caller can resolve them by title search.
	KeepUnlinked bool
}

// Parser reads best-picture listing pages.
type Parser struct {
	fetcher Fetcher
	baseURL string
	opts    Options
	log     *logger.Logger
	metrics *logger.Metrics
}

// New creates a Parser fetching listings from baseURL.
func New(f Fetcher, baseURL string, opts Options, log *logger.Logger, metrics *logger.Metrics) *Parser {
	if log == nil {
		log = logger.Default()
	}
	if metrics == nil {
		metrics = logger.DefaultMetrics()
	}
	return &Parser{
		fetcher: f,
		baseURL: baseURL,
		opts:    opts,
		log:     log,
		metrics: metrics,
	}
}

// ListingURL returns the listing page URL for a year.
func ListingURL(baseURL string, year int) string {
	return fetcher.JoinURL(baseURL, fmt.Sprintf("/oscar/chart/?yr=%d", year))
}

// ParseYear fetches and parses the listing for year. A page without the
// marker yields no records and no error.
func (p *Parser) ParseYear(ctx context.Context, year int) ([]movie.BestPictureRecord, error) {
	doc, err := p.fetcher.Fetch(ctx, ListingURL(p.baseURL, year))
	if err != nil {
		return nil, fmt.Errorf("fetching listing for %d: %w", year, err)
	}
	return p.parseListing(doc, year)
}

func (p *Parser) parseListing(doc *goquery.Document, year int) ([]movie.BestPictureRecord, error) {
	table := tableAfterMarker(doc)
	if table == nil {
		p.log.Debug("No best picture table found", logger.Fields{"year": year})
		p.metrics.IncrCounter("years.missing")
		return nil, nil
	}

	records := make([]movie.BestPictureRecord, 0)
	var rowErr error

	table.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i == 0 {
			return true // header
		}

		rec, err := parseRow(row, year, i)
		if err == nil {
			records = append(records, rec)
			return true
		}

		var linkErr *MissingLinkError
		if errors.As(err, &linkErr) && p.opts.KeepUnlinked {
			p.log.Debug("Keeping row without detail link", logger.Fields{"year": year, "movie": rec.Title})
			records = append(records, rec)
			return true
		}

		if p.opts.Lenient {
			p.log.Debug("Dropping listing row", logger.Fields{"year": year, "row": i, "reason": err.Error()})
			p.metrics.IncrCounter("rows.dropped")
			return true
		}

		rowErr = err
		return false
	})

	if rowErr != nil {
		return nil, rowErr
	}
	return records, nil
}

// parseRow extracts a record from one listing row. On a MissingLinkError the
// returned record is filled in except for DetailPath.
func parseRow(row *goquery.Selection, year, index int) (movie.BestPictureRecord, error) {
	cells := row.Find("td")
	if cells.Length() != ColumnCount {
		return movie.BestPictureRecord{}, &ColumnCountError{Year: year, Row: index, Got: cells.Length()}
	}

	cell := func(i int) string {
		return strings.TrimSpace(cells.Eq(i).Text())
	}

	rec := movie.BestPictureRecord{
		Title:           cell(columns.Title),
		Year:            year,
		PreNomGross:     cell(columns.PreNomGross),
		PreNomTheatres:  cell(columns.PreNomTheatres),
		PostNomGross:    cell(columns.PostNomGross),
		PostNomTheatres: cell(columns.PostNomTheatres),
		ReleaseDate:     fmt.Sprintf("%d/%s", year, cell(columns.Release)),
	}

	path, ok := detailPath(cells.Eq(columns.Title))
	if !ok {
		return rec, &MissingLinkError{Year: year, Row: index, Title: rec.Title}
	}
	rec.DetailPath = path

	return rec, nil
}

// detailPath returns the part of the first /oscar link's href that follows
// the /oscar segment.
func detailPath(titleCell *goquery.Selection) (string, bool) {
	var path string
	titleCell.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if m := detailPathPattern.FindStringSubmatch(href); m != nil {
			path = m[1]
			return false
		}
		return true
	})
	return path, path != ""
}

// tableAfterMarker returns the first table that follows the marker text node
// in document order, or nil when either is absent.
func tableAfterMarker(doc *goquery.Document) *goquery.Selection {
	var (
		seenMarker bool
		table      *html.Node
	)

	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if seenMarker && n.Type == html.ElementNode && n.Data == "table" {
			table = n
			return true
		}
		if !seenMarker && n.Type == html.TextNode && n.Data == Marker {
			seenMarker = true
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

	if table == nil {
		return nil
	}
	return doc.FindNodes(table)
}
