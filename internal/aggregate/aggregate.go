package aggregate

import (
	"github.com/pfrederiksen/bom-oscars/internal/movie"
)

type entry struct {
	counts map[string]int
	total  int
	win    bool
	hasWin bool
}

// Matrix is the per-movie aggregation of a set of nomination records,
// indexed by movie.Key of the nominated title.
type Matrix struct {
	Categories Categories

	entries map[string]*entry
}

// Build aggregates noms over cats.
func Build(noms []movie.Nomination, cats Categories) *Matrix {
	m := &Matrix{
		Categories: cats,
		entries:    make(map[string]*entry),
	}

	for _, n := range noms {
		e := m.entry(n.Title)
		e.total++
		if cats.Contains(n.Category) {
			e.counts[n.Category]++
		}
		if n.Category == PictureCategory {
			// A title shared by two movies can carry two Picture rows;
			// any win marks the key as a winner.
			e.win = e.win || n.Win
			e.hasWin = true
		}
	}

	return m
}

func (m *Matrix) entry(title string) *entry {
	key := movie.Key(title)
	if e, ok := m.entries[key]; ok {
		return e
	}

	e := &entry{counts: make(map[string]int, len(m.Categories))}
	for _, c := range m.Categories {
		e.counts[c] = 0
	}
	m.entries[key] = e
	return e
}

// CategoryCounts returns a count per known category for title, zero where
// the movie was not nominated. ok is false when the title has no
// nominations. The map is a copy owned by the caller.
func (m *Matrix) CategoryCounts(title string) (counts map[string]int, ok bool) {
	e, ok := m.entries[movie.Key(title)]
	if !ok {
		return nil, false
	}
	counts = make(map[string]int, len(e.counts))
	for c, n := range e.counts {
		counts[c] = n
	}
	return counts, true
}

// NominationCounts returns the total nomination count per title key,
// unknown categories included.
func (m *Matrix) NominationCounts() map[string]int {
	out := make(map[string]int, len(m.entries))
	for k, e := range m.entries {
		out[k] = e.total
	}
	return out
}

// PictureWins returns the best picture win flag per title key. Titles
// without a Picture nomination are absent.
func (m *Matrix) PictureWins() map[string]bool {
	out := make(map[string]bool)
	for k, e := range m.entries {
		if e.hasWin {
			out[k] = e.win
		}
	}
	return out
}
