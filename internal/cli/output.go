package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/bom-oscars/internal/movie"
)

// OutputFormat specifies the summary format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseSummaryFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid summary format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// Summary describes a completed run
type Summary struct {
	RunID       string    `json:"run_id"`
	CompletedAt time.Time `json:"completed_at"`
	StartYear   int       `json:"start_year"`
	EndYear     int       `json:"end_year"`
	Movies      int       `json:"movies"`
	Nominations int       `json:"nominations"`
	Output      string    `json:"output"`
	Collisions  []string  `json:"title_collisions,omitempty"`
}

// WriteSummary writes the run summary in the specified format
func WriteSummary(w io.Writer, s *Summary, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, s)
	case FormatText:
		fmt.Fprintf(w, "Wrote %d movies (%d nominations, %d-%d) to %s\n",
			s.Movies, s.Nominations, s.StartYear, s.EndYear, s.Output)
		if len(s.Collisions) > 0 {
			fmt.Fprintf(w, "Shared titles with combined nominations: %s\n", strings.Join(s.Collisions, ", "))
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteNominations lists nomination records grouped by movie
func WriteNominations(w io.Writer, noms []movie.Nomination, format OutputFormat) error {
	switch format {
	case FormatJSON:
		if noms == nil {
			noms = []movie.Nomination{}
		}
		return writeJSON(w, noms)
	case FormatText:
		return writeNominationsText(w, noms)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeNominationsText(w io.Writer, noms []movie.Nomination) error {
	if len(noms) == 0 {
		fmt.Fprintln(w, "No nominations found.")
		return nil
	}

	current := ""
	wins := 0
	for _, n := range noms {
		if n.Title != current {
			current = n.Title
			fmt.Fprintf(w, "\n%s:\n", current)
		}
		if n.Win {
			wins++
			fmt.Fprintf(w, "  WIN: %s\n", n.Category)
		} else {
			fmt.Fprintf(w, "  %s\n", n.Category)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d nominations, %d wins\n", len(noms), wins)
	return nil
}
