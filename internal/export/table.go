package export

import (
	"fmt"
	"strconv"

	"github.com/pfrederiksen/bom-oscars/internal/aggregate"
	"github.com/pfrederiksen/bom-oscars/internal/merge"
	"github.com/pfrederiksen/bom-oscars/internal/movie"
)

// ReleaseLayout is the date format of the Release column.
const ReleaseLayout = "2006-01-02"

// Kind tells typed writers how to store a column's cells.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindBool
)

// Table is a header plus rows of preformatted cells. An empty cell is a
// missing value.
type Table struct {
	Header  []string
	Kinds   []Kind
	Records [][]string
}

// MovieTable lays out merged rows with one column per category in cats.
func MovieTable(rows []merge.Row, cats aggregate.Categories) Table {
	t := Table{
		Header: []string{"Movie", "Pre-Nom Gross", "Pre-Nom Theatres", "Post-Nom Gross",
			"Post-Nom Theatres", "Release", "Year"},
		Kinds: []Kind{KindText, KindNumber, KindNumber, KindNumber,
			KindNumber, KindText, KindNumber},
	}
	for _, c := range cats {
		t.Header = append(t.Header, c)
		t.Kinds = append(t.Kinds, KindNumber)
	}
	t.Header = append(t.Header, "Nomination count", "Win")
	t.Kinds = append(t.Kinds, KindNumber, KindBool)

	for _, r := range rows {
		rec := []string{
			r.Title,
			formatGross(r.PreNomGross),
			strconv.Itoa(r.PreNomTheatres),
			formatGross(r.PostNomGross),
			strconv.Itoa(r.PostNomTheatres),
			formatRelease(r),
			strconv.Itoa(r.Year),
		}
		for _, c := range cats {
			if r.Counts == nil {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, strconv.Itoa(r.Counts[c]))
		}

		if r.HasNominations {
			rec = append(rec, strconv.Itoa(r.Nominations))
		} else {
			rec = append(rec, "")
		}
		if r.HasWin {
			rec = append(rec, strconv.FormatBool(r.Win))
		} else {
			rec = append(rec, "")
		}

		t.Records = append(t.Records, rec)
	}
	return t
}

// NominationTable lays out flat nomination records.
func NominationTable(noms []movie.Nomination) Table {
	t := Table{
		Header: []string{"Movie", "Nomination", "Win"},
		Kinds:  []Kind{KindText, KindText, KindBool},
	}
	for _, n := range noms {
		t.Records = append(t.Records, []string{n.Title, n.Category, strconv.FormatBool(n.Win)})
	}
	return t
}

func formatGross(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func formatRelease(r merge.Row) string {
	if r.Release.IsZero() {
		return ""
	}
	return r.Release.Format(ReleaseLayout)
}
