package bestpicture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/bom-oscars/internal/fetcher"
	"github.com/pfrederiksen/bom-oscars/internal/logger"
)

const headerRow = `<tr><td>#</td><td>Movie</td><td>Studio</td><td>Pre-Nom Gross</td><td>Thtrs</td>` +
	`<td>Post-Nom Gross</td><td>Thtrs</td><td>Post-Award Gross</td><td>Thtrs</td><td>Total</td><td>Release</td></tr>`

// listingRow renders a row with the given title cell HTML; extra cells are
// appended after the release column and drop removes trailing cells.
func listingRow(titleCell, release string, drop int) string {
	cells := []string{
		"1", titleCell, "DW", "$50,000,000", "1,200", "$120,000,000", "2,900",
		"$180,000,000", "3,000", "$187,705,427", release,
	}
	cells = cells[:len(cells)-drop]

	var b strings.Builder
	b.WriteString("<tr>")
	for _, c := range cells {
		b.WriteString("<td>" + c + "</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}

func listingPage(rows ...string) string {
	return `<html><body>
		<table><tr><td>navigation</td></tr></table>
		<p><b>BEST PICTURE</b></p>
		<table>` + headerRow + strings.Join(rows, "") + `</table>
		<table><tr><td>footer</td></tr></table>
	</body></html>`
}

func newTestParser(opts Options) (*Parser, *logger.Metrics) {
	m := logger.NewMetrics()
	return New(nil, "http://bom.test", opts, logger.New(logger.LevelDebug, io.Discard), m), m
}

func mustDoc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func TestParseListing_ValidRow(t *testing.T) {
	page := listingPage(listingRow(`<a href="/oscar/movies/?id=gladiator.htm">Gladiator</a>`, "05/05", 0))
	p, _ := newTestParser(Options{Lenient: true})

	records, err := p.parseListing(mustDoc(t, page), 2000)
	if err != nil {
		t.Fatalf("parseListing() unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	checks := []struct {
		field, got, want string
	}{
		{"Title", rec.Title, "Gladiator"},
		{"PreNomGross", rec.PreNomGross, "$50,000,000"},
		{"PreNomTheatres", rec.PreNomTheatres, "1,200"},
		{"PostNomGross", rec.PostNomGross, "$120,000,000"},
		{"PostNomTheatres", rec.PostNomTheatres, "2,900"},
		{"ReleaseDate", rec.ReleaseDate, "2000/05/05"},
		{"DetailPath", rec.DetailPath, "/movies/?id=gladiator.htm"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
	if rec.Year != 2000 {
		t.Errorf("Year = %d, want 2000", rec.Year)
	}
}

func TestParseListing_ShortRowDroppedWhenLenient(t *testing.T) {
	page := listingPage(
		listingRow(`<a href="/oscar/movies/?id=gladiator.htm">Gladiator</a>`, "05/05", 0),
		listingRow(`<a href="/oscar/movies/?id=traffic.htm">Traffic</a>`, "12/27", 1),
	)
	p, m := newTestParser(Options{Lenient: true})

	records, err := p.parseListing(mustDoc(t, page), 2000)
	if err != nil {
		t.Fatalf("parseListing() unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Title != "Gladiator" {
		t.Fatalf("records = %+v, want only Gladiator", records)
	}
	if got := m.Counter("rows.dropped"); got != 1 {
		t.Errorf("rows.dropped = %d, want 1", got)
	}
}

func TestParseListing_ShortRowFailsWhenStrict(t *testing.T) {
	page := listingPage(listingRow(`<a href="/oscar/movies/?id=traffic.htm">Traffic</a>`, "12/27", 1))
	p, _ := newTestParser(Options{})

	_, err := p.parseListing(mustDoc(t, page), 2000)

	var colErr *ColumnCountError
	if !errors.As(err, &colErr) {
		t.Fatalf("parseListing() error = %v, want *ColumnCountError", err)
	}
	if colErr.Got != 10 || colErr.Row != 1 || colErr.Year != 2000 {
		t.Errorf("ColumnCountError = %+v, want Got=10 Row=1 Year=2000", colErr)
	}
}

func TestParseListing_MissingLink(t *testing.T) {
	page := listingPage(listingRow(`<a href="/movies/?id=chocolat.htm">Chocolat</a>`, "12/15", 0))

	tests := []struct {
		name      string
		opts      Options
		wantCount int
		wantErr   bool
	}{
		{"lenient drops", Options{Lenient: true}, 0, false},
		{"strict fails", Options{}, 0, true},
		{"keep unlinked", Options{Lenient: true, KeepUnlinked: true}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestParser(tt.opts)
			records, err := p.parseListing(mustDoc(t, page), 2000)

			if tt.wantErr {
				var linkErr *MissingLinkError
				if !errors.As(err, &linkErr) {
					t.Fatalf("error = %v, want *MissingLinkError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(records) != tt.wantCount {
				t.Fatalf("got %d records, want %d", len(records), tt.wantCount)
			}
			if tt.wantCount == 1 {
				if records[0].Title != "Chocolat" || records[0].HasDetailPath() {
					t.Errorf("record = %+v, want Chocolat without detail path", records[0])
				}
			}
		})
	}
}

func TestParseListing_NoMarker(t *testing.T) {
	page := `<html><body><p>BEST DIRECTOR</p><table>` + headerRow +
		listingRow(`<a href="/oscar/movies/?id=x.htm">X</a>`, "01/01", 0) + `</table></body></html>`
	p, m := newTestParser(Options{Lenient: true})

	records, err := p.parseListing(mustDoc(t, page), 1951)
	if err != nil {
		t.Fatalf("parseListing() unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	if got := m.Counter("years.missing"); got != 1 {
		t.Errorf("years.missing = %d, want 1", got)
	}
}

func TestParseListing_MarkerMustMatchExactly(t *testing.T) {
	page := `<html><body><p>BEST PICTURE NOMINEES</p><table>` + headerRow +
		listingRow(`<a href="/oscar/movies/?id=x.htm">X</a>`, "01/01", 0) + `</table></body></html>`
	p, _ := newTestParser(Options{Lenient: true})

	records, err := p.parseListing(mustDoc(t, page), 1951)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestDetailPath(t *testing.T) {
	tests := []struct {
		name     string
		cell     string
		want     string
		wantFind bool
	}{
		{"relative", `<a href="/oscar/movies/?id=gladiator.htm">G</a>`, "/movies/?id=gladiator.htm", true},
		{"absolute", `<a href="http://www.boxofficemojo.com/oscar/movies/?id=x.htm">X</a>`, "/movies/?id=x.htm", true},
		{"second link", `<a href="/studio/?id=dw.htm">DW</a><a href="/oscar/movies/?id=y.htm">Y</a>`, "/movies/?id=y.htm", true},
		{"no oscar link", `<a href="/movies/?id=z.htm">Z</a>`, "", false},
		{"no link", `Plain`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, "<table><tr><td>"+tt.cell+"</td></tr></table>")
			got, ok := detailPath(doc.Find("td"))
			if ok != tt.wantFind || got != tt.want {
				t.Errorf("detailPath() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantFind)
			}
		})
	}
}

func TestParseYear(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oscar/chart/" {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Query().Get("yr") {
		case "2000":
			fmt.Fprint(w, listingPage(listingRow(`<a href="/oscar/movies/?id=gladiator.htm">Gladiator</a>`, "05/05", 0)))
		case "1950":
			fmt.Fprint(w, `<html><body>No data</body></html>`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	m := logger.NewMetrics()
	p := New(fetcher.New(), server.URL, Options{Lenient: true}, logger.New(logger.LevelInfo, io.Discard), m)

	records, err := p.ParseYear(context.Background(), 2000)
	if err != nil {
		t.Fatalf("ParseYear(2000) unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Title != "Gladiator" {
		t.Errorf("ParseYear(2000) = %+v, want Gladiator", records)
	}

	records, err = p.ParseYear(context.Background(), 1950)
	if err != nil || len(records) != 0 {
		t.Errorf("ParseYear(1950) = %v, %v; want no records and no error", records, err)
	}

	if _, err := p.ParseYear(context.Background(), 1960); err == nil {
		t.Error("ParseYear(1960) expected transport error, got nil")
	}
}

func TestListingURL(t *testing.T) {
	if got := ListingURL("http://www.boxofficemojo.com/", 1999); got != "http://www.boxofficemojo.com/oscar/chart/?yr=1999" {
		t.Errorf("ListingURL() = %q", got)
	}
}
