package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/bom-oscars/internal/aggregate"
	"github.com/pfrederiksen/bom-oscars/internal/logger"
	"github.com/pfrederiksen/bom-oscars/internal/merge"
	"github.com/pfrederiksen/bom-oscars/internal/movie"
	"github.com/pfrederiksen/bom-oscars/internal/normalize"
)

// ListingParser returns the best-picture rows for one year.
type ListingParser interface {
	ParseYear(ctx context.Context, year int) ([]movie.BestPictureRecord, error)
}

// NominationExtractor returns the nominations behind a detail path.
type NominationExtractor interface {
	Extract(ctx context.Context, detailPath string) ([]movie.Nomination, error)
}

// TitleMatcher resolves a free-text title to one search candidate.
type TitleMatcher interface {
	Find(ctx context.Context, title string) (movie.Candidate, error)
}

// Options selects what a run covers.
type Options struct {
	Years      []int
	Categories aggregate.Categories
	// SearchFallback resolves listing rows without a detail path through
	// the TitleMatcher. Without it such rows have no nominations.
	SearchFallback bool
}

// Result is the outcome of a run.
type Result struct {
	Movies      []movie.Movie
	Nominations []movie.Nomination
	Categories  aggregate.Categories
	Rows        []merge.Row
	Collisions  []merge.Collision
}

// Pipeline wires the collection stages together.
type Pipeline struct {
	listings  ListingParser
	extractor NominationExtractor
	matcher   TitleMatcher
	log       *logger.Logger
	metrics   *logger.Metrics
}

// New creates a Pipeline. matcher may be nil when neither the search
// fallback nor title lookups are used.
func New(listings ListingParser, extractor NominationExtractor, matcher TitleMatcher, log *logger.Logger, metrics *logger.Metrics) *Pipeline {
	if log == nil {
		log = logger.Default()
	}
	if metrics == nil {
		metrics = logger.DefaultMetrics()
	}
	return &Pipeline{
		listings:  listings,
		extractor: extractor,
		matcher:   matcher,
		log:       log,
		metrics:   metrics,
	}
}

// Run collects every year in opts and returns the joined table.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	cats := opts.Categories
	if len(cats) == 0 {
		cats = aggregate.DefaultCategories()
	}

	records, err := p.collectListings(ctx, opts.Years)
	if err != nil {
		return nil, err
	}

	movies := make([]movie.Movie, 0, len(records))
	for _, rec := range records {
		m, err := normalize.Record(rec)
		if err != nil {
			return nil, fmt.Errorf("normalizing listing: %w", err)
		}
		movies = append(movies, m)
	}

	noms, err := p.collectNominations(ctx, records, opts.SearchFallback)
	if err != nil {
		return nil, err
	}

	collisions := merge.Collisions(movies)
	for _, c := range collisions {
		p.log.Warn("Movies share a title; their nomination figures are combined", logger.Fields{
			"key":   c.Key,
			"years": c.Years,
		})
	}

	matrix := aggregate.Build(noms, cats)
	rows := merge.Join(movies, matrix)

	p.metrics.SetGauge("movies", float64(len(movies)))
	p.metrics.SetGauge("nominations", float64(len(noms)))
	p.metrics.RecordTiming("run", time.Since(start))

	p.log.Info("Run complete", logger.Fields{
		"movies":      len(movies),
		"nominations": len(noms),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return &Result{
		Movies:      movies,
		Nominations: noms,
		Categories:  cats,
		Rows:        rows,
		Collisions:  collisions,
	}, nil
}

func (p *Pipeline) collectListings(ctx context.Context, years []int) ([]movie.BestPictureRecord, error) {
	var all []movie.BestPictureRecord
	for _, year := range years {
		p.log.Info("Processing year", logger.Fields{"year": year})

		records, err := p.listings.ParseYear(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", year, err)
		}
		if len(records) == 0 {
			p.log.Warn("None found for year", logger.Fields{"year": year})
			continue
		}

		p.metrics.AddCounter("movies.listed", int64(len(records)))
		all = append(all, records...)
	}
	return all, nil
}

func (p *Pipeline) collectNominations(ctx context.Context, records []movie.BestPictureRecord, searchFallback bool) ([]movie.Nomination, error) {
	var all []movie.Nomination
	for _, rec := range records {
		p.log.Info("Getting nominations", logger.Fields{"movie": rec.Title, "year": rec.Year})

		path := rec.DetailPath
		if !rec.HasDetailPath() {
			if !searchFallback || p.matcher == nil {
				p.log.Warn("No detail link; skipping nominations", logger.Fields{"movie": rec.Title, "year": rec.Year})
				continue
			}
			c, err := p.matcher.Find(ctx, rec.Title)
			if err != nil {
				return nil, fmt.Errorf("resolving %q: %w", rec.Title, err)
			}
			p.log.Debug("Resolved by search", logger.Fields{"movie": rec.Title, "match": c.Title, "path": c.Path})
			p.metrics.IncrCounter("movies.searched")
			path = c.Path
		}

		noms, err := p.extractor.Extract(ctx, path)
		if err != nil {
			return nil, err
		}
		all = append(all, noms...)
	}
	return all, nil
}

// Nominations resolves each free-text title through search and returns
// the nominations of every match, in input order.
func (p *Pipeline) Nominations(ctx context.Context, titles []string) ([]movie.Nomination, error) {
	if p.matcher == nil {
		return nil, fmt.Errorf("title lookup needs a matcher")
	}

	var all []movie.Nomination
	for _, title := range titles {
		p.log.Info("Looking up", logger.Fields{"query": title})

		c, err := p.matcher.Find(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", title, err)
		}

		noms, err := p.extractor.Extract(ctx, c.Path)
		if err != nil {
			return nil, err
		}
		all = append(all, noms...)
	}
	return all, nil
}
