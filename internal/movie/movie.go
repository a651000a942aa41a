package movie

import (
	"strings"
	"time"
)

// BestPictureRecord is one qualifying row of a best-picture listing page.
type BestPictureRecord struct {
	Title           string `json:"title"`
	Year            int    `json:"year"`
	PreNomGross     string `json:"pre_nom_gross"`
	PreNomTheatres  string `json:"pre_nom_theatres"`
	PostNomGross    string `json:"post_nom_gross"`
	PostNomTheatres string `json:"post_nom_theatres"`
	ReleaseDate     string `json:"release_date"` // YYYY/MM/DD
	DetailPath      string `json:"detail_path,omitempty"`
}

// HasDetailPath reports whether the row carried a link to its nomination page.
func (r BestPictureRecord) HasDetailPath() bool {
	return strings.TrimSpace(r.DetailPath) != ""
}

// Movie is a BestPictureRecord with its figures converted to typed values.
type Movie struct {
	Title           string    `json:"title"`
	Year            int       `json:"year"`
	PreNomGross     float64   `json:"pre_nom_gross"`
	PreNomTheatres  int       `json:"pre_nom_theatres"`
	PostNomGross    float64   `json:"post_nom_gross"`
	PostNomTheatres int       `json:"post_nom_theatres"`
	Release         time.Time `json:"release"`
	DetailPath      string    `json:"detail_path,omitempty"`
}

// Nomination is one award category a movie was nominated in.
type Nomination struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Win      bool   `json:"win"`
}

// Candidate is a search result that may correspond to a requested title.
type Candidate struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Key returns the join key for a title: surrounding whitespace trimmed,
// inner whitespace collapsed, and case folded.
//
// The key is used purely for lookups between record sets; it never
// identifies a production. Distinct films sharing a title map to one key.
func Key(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
