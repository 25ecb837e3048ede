package core

import "context"

type Catalog interface {
	SearchPage(ctx context.Context, q SearchQuery, page int) (SearchPage, error)
	Series(ctx context.Context, id int) (SeriesRecord, error)
}

type Searcher interface {
	Search(ctx context.Context, q SearchQuery) (Outcome, error)
	Series(ctx context.Context, id int) (SeriesDetail, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type EventPublisher interface {
	SearchCompleted(ctx context.Context, q SearchQuery, outcome Outcome) error
	ForecastComputed(ctx context.Context, seriesID int, f ForecastPoint) error
}

type Metrics interface {
	ObserveOutcome(kind string)
	ObservePages(n int)
}
