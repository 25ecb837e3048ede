package core

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
)

type Service struct {
	log         *slog.Logger
	catalog     Catalog
	events      EventPublisher
	metrics     Metrics
	imagesURL   string
	concurrency int

	now func() time.Time
}

func NewService(
	log *slog.Logger,
	catalog Catalog,
	events EventPublisher,
	metrics Metrics,
	imagesURL string,
	concurrency int,
) (*Service, error) {
	if concurrency < 1 {
		return nil, fmt.Errorf("wrong concurrency specified: %d", concurrency)
	}
	return &Service{
		log:         log,
		catalog:     catalog,
		events:      events,
		metrics:     metrics,
		imagesURL:   imagesURL,
		concurrency: concurrency,
		now:         time.Now,
	}, nil
}

// Search probes the catalog for the match count and then either stops
// (nothing found, too many matches), resolves the single match, or fetches
// every result page concurrently and numbers the merged list.
func (s *Service) Search(ctx context.Context, q SearchQuery) (Outcome, error) {
	if q.Title == "" {
		return nil, ErrBadArguments
	}

	probe, err := s.catalog.SearchPage(ctx, q, 1)
	if err != nil {
		return nil, fmt.Errorf("count probe: %w", err)
	}

	var outcome Outcome
	switch {
	case probe.Count <= 0:
		outcome = Empty{}

	case probe.Count == 1:
		if len(probe.Items) == 0 {
			return nil, fmt.Errorf("count is 1 but no series listed: %w", ErrMalformedRecord)
		}
		detail, err := s.Series(ctx, probe.Items[0].ID)
		if err != nil {
			return nil, err
		}
		outcome = Single{Series: detail}

	case probe.Count > OverflowThreshold:
		s.log.Debug("search overflow", "title", q.Title, "count", probe.Count)
		outcome = Overflow{Count: probe.Count}

	default:
		items, err := s.fetchAll(ctx, q, probe)
		if err != nil {
			return nil, err
		}
		if pages := Paginate(items); len(pages) > 0 {
			outcome = Paginated{Total: probe.Count, Pages: pages}
		} else {
			outcome = Empty{}
		}
	}

	s.metrics.ObserveOutcome(OutcomeKind(outcome))
	if err := s.events.SearchCompleted(ctx, q, outcome); err != nil {
		s.log.Warn("cannot publish search event", "error", err)
	}
	return outcome, nil
}

func (s *Service) fetchAll(ctx context.Context, q SearchQuery, probe SearchPage) ([]Item, error) {
	totalPages := probe.TotalPages
	if want := expectedPages(probe.Count, probe.PerPage); totalPages != want {
		return nil, fmt.Errorf("total pages %d for %d matches, want %d: %w",
			totalPages, probe.Count, want, ErrMalformedRecord)
	}
	s.metrics.ObservePages(totalPages)

	// each goroutine owns exactly one slot, merge order is page order
	results := make([][]Item, totalPages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for page := 1; page <= totalPages; page++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			sp, err := s.catalog.SearchPage(gctx, q, page)
			if err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}
			items := make([]Item, 0, len(sp.Items))
			for _, it := range sp.Items {
				items = append(items, Item{Title: it.DisplayTitle(), ID: it.ID})
			}
			results[page-1] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Concat(results...), nil
}

func expectedPages(count, perPage int) int {
	if perPage <= 0 {
		perPage = CatalogPageLimit
	}
	return (count + perPage - 1) / perPage
}

// Series fetches one series and attaches its timeline projections.
func (s *Service) Series(ctx context.Context, id int) (SeriesDetail, error) {
	if id <= 0 {
		return SeriesDetail{}, ErrBadArguments
	}

	rec, err := s.catalog.Series(ctx, id)
	if err != nil {
		return SeriesDetail{}, fmt.Errorf("series %d: %w", id, err)
	}

	detail, err := ParseSeries(rec, s.imagesURL)
	if err != nil {
		return SeriesDetail{}, err
	}

	detail, errs := Project(detail, s.now())
	for _, err := range errs {
		s.log.Warn("projection skipped", "series", id, "error", err)
	}

	for _, p := range detail.Projections {
		if p.Forecast == nil {
			continue
		}
		if err := s.events.ForecastComputed(ctx, id, *p.Forecast); err != nil {
			s.log.Warn("cannot publish forecast event", "series", id, "error", err)
		}
	}
	return detail, nil
}

// OutcomeKind names the outcome variant.
func OutcomeKind(o Outcome) string {
	switch o.(type) {
	case Empty:
		return "empty"
	case Overflow:
		return "overflow"
	case Single:
		return "single"
	case Paginated:
		return "paginated"
	default:
		return "unknown"
	}
}
