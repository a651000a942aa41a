package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/bom-oscars/internal/merge"
)

// SortOrder represents the available row orders
type SortOrder string

const (
	SortByYear  SortOrder = "year"
	SortByTitle SortOrder = "title"
	SortByGross SortOrder = "gross"
)

func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortByYear, SortByTitle, SortByGross:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be 'year', 'title' or 'gross')", s)
}

// sortRows orders rows in place. Ties keep listing order, so repeated runs
// over the same pages produce the same table.
func sortRows(rows []merge.Row, order SortOrder) {
	switch order {
	case SortByYear:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Year < rows[j].Year
		})
	case SortByTitle:
		sort.SliceStable(rows, func(i, j int) bool {
			ti, tj := strings.ToLower(rows[i].Title), strings.ToLower(rows[j].Title)
			if ti != tj {
				return ti < tj
			}
			// If titles are equal, the earlier year first
			return rows[i].Year < rows[j].Year
		})
	case SortByGross:
		sort.SliceStable(rows, func(i, j int) bool {
			return totalGross(rows[i]) > totalGross(rows[j])
		})
	}
}

// totalGross is the gross up to the ceremony: before plus after the
// nomination announcement.
func totalGross(r merge.Row) float64 {
	return r.PreNomGross + r.PostNomGross
}
