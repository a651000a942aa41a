package search

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pfrederiksen/bom-oscars/internal/movie"
)

// TerminalResolver lists candidates on Out and reads a zero-based index from
// In. Non-numeric or out-of-range answers are asked again; "q" or end of
// input returns ErrNoSelection.
type TerminalResolver struct {
	In  io.Reader
	Out io.Writer

	scanner *bufio.Scanner
}

// NewTerminalResolver creates a resolver reading answers from in.
func NewTerminalResolver(in io.Reader, out io.Writer) *TerminalResolver {
	return &TerminalResolver{In: in, Out: out}
}

// Resolve implements Resolver.
func (r *TerminalResolver) Resolve(ctx context.Context, query string, candidates []movie.Candidate) (int, error) {
	if r.scanner == nil {
		r.scanner = bufio.NewScanner(r.In)
	}

	fmt.Fprintf(r.Out, "\nSeveral movies match %q:\n", query)
	writeCandidates(r.Out, candidates)

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		fmt.Fprintf(r.Out, "Enter a number (0-%d, q to skip): ", len(candidates)-1)
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return 0, fmt.Errorf("reading selection: %w", err)
			}
			return 0, ErrNoSelection
		}

		answer := strings.TrimSpace(r.scanner.Text())
		if strings.EqualFold(answer, "q") {
			return 0, ErrNoSelection
		}

		n, err := strconv.Atoi(answer)
		if err != nil || n < 0 || n >= len(candidates) {
			fmt.Fprintf(r.Out, "%q is not a valid choice\n", answer)
			continue
		}
		return n, nil
	}
}

// writeCandidates prints an index, title and path per candidate with the
// title column padded to its widest display width.
func writeCandidates(w io.Writer, candidates []movie.Candidate) {
	width := 0
	for _, c := range candidates {
		if cw := runewidth.StringWidth(c.Title); cw > width {
			width = cw
		}
	}
	indexWidth := len(strconv.Itoa(len(candidates) - 1))

	for i, c := range candidates {
		fmt.Fprintf(w, "  %*d  %s  %s\n", indexWidth, i, runewidth.FillRight(c.Title, width), c.Path)
	}
}
