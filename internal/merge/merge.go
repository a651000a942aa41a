// Package merge joins best-picture movies with their aggregated nomination
// figures into the rows of the exported table.
package merge

import (
	"github.com/pfrederiksen/bom-oscars/internal/aggregate"
	"github.com/pfrederiksen/bom-oscars/internal/movie"
)

// Row is one line of the final table. Nomination figures are absent when
// the movie has no nomination records.
type Row struct {
	movie.Movie

	// Counts holds one value per category column; nil when the movie has
	// no nominations.
	Counts map[string]int

	Nominations    int
	HasNominations bool

	Win    bool
	HasWin bool
}

// Collision is a set of movies whose titles share one join key.
type Collision struct {
	Key    string
	Titles []string
	Years  []int
}

// Join left-joins movies with the category counts, nomination counts and
// picture wins of m. Every movie yields exactly one row, in input order.
func Join(movies []movie.Movie, m *aggregate.Matrix) []Row {
	totals := m.NominationCounts()
	wins := m.PictureWins()

	rows := make([]Row, 0, len(movies))
	for _, mv := range movies {
		key := movie.Key(mv.Title)
		row := Row{Movie: mv}
		if counts, ok := m.CategoryCounts(mv.Title); ok {
			row.Counts = counts
		}
		if n, ok := totals[key]; ok {
			row.Nominations = n
			row.HasNominations = true
		}
		if win, ok := wins[key]; ok {
			row.Win = win
			row.HasWin = true
		}
		rows = append(rows, row)
	}
	return rows
}

// Collisions reports movies that share a join key. Their nomination
// figures are pooled under that key, so each such row carries the
// combined counts.
func Collisions(movies []movie.Movie) []Collision {
	byKey := make(map[string]*Collision)
	var order []string

	for _, mv := range movies {
		key := movie.Key(mv.Title)
		c, ok := byKey[key]
		if !ok {
			c = &Collision{Key: key}
			byKey[key] = c
			order = append(order, key)
		}
		c.Titles = append(c.Titles, mv.Title)
		c.Years = append(c.Years, mv.Year)
	}

	var out []Collision
	for _, key := range order {
		if c := byKey[key]; len(c.Titles) > 1 {
			out = append(out, *c)
		}
	}
	return out
}
