// Package normalize converts the string figures found on listing pages into
// numeric and temporal values.
//
// The numeric converters are lossy: anything that does not parse becomes zero.
// ParseReleaseDate is strict and returns an error instead.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pfrederiksen/bom-oscars/internal/movie"
)

// ReleaseLayout is the layout of a release date assembled from a listing row.
// Single-digit months and days are accepted.
const ReleaseLayout = "2006/1/2"

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// CurrencyToNumber strips every character that is not a digit or a decimal
// point and parses the rest. "$123,456" becomes 123456. Empty or malformed
// input, such as "N/A", yields 0.
func CurrencyToNumber(s string) float64 {
	d, err := decimal.NewFromString(nonNumeric.ReplaceAllString(s, ""))
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// GroupedIntToInt removes thousands separators and parses an integer.
// "1,234,567" becomes 1234567; malformed input yields 0.
func GroupedIntToInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(s, ",", "")))
	if err != nil {
		return 0
	}
	return n
}

// DateError reports a release date that does not match ReleaseLayout.
type DateError struct {
	Value string
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid release date %q: want YYYY/MM/DD", e.Value)
}

func (e *DateError) Unwrap() error { return e.Err }

// ParseReleaseDate parses a YYYY/MM/DD date. There is no fallback value.
func ParseReleaseDate(s string) (time.Time, error) {
	t, err := time.Parse(ReleaseLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &DateError{Value: s, Err: err}
	}
	return t, nil
}

// Record converts a listing row into a Movie. Gross and theatre figures
// fall back to zero; a bad release date is returned as a *DateError.
func Record(rec movie.BestPictureRecord) (movie.Movie, error) {
	release, err := ParseReleaseDate(rec.ReleaseDate)
	if err != nil {
		return movie.Movie{}, fmt.Errorf("%s (%d): %w", rec.Title, rec.Year, err)
	}

	return movie.Movie{
		Title:           rec.Title,
		Year:            rec.Year,
		PreNomGross:     CurrencyToNumber(rec.PreNomGross),
		PreNomTheatres:  GroupedIntToInt(rec.PreNomTheatres),
		PostNomGross:    CurrencyToNumber(rec.PostNomGross),
		PostNomTheatres: GroupedIntToInt(rec.PostNomTheatres),
		Release:         release,
		DetailPath:      rec.DetailPath,
	}, nil
}
