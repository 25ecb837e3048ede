package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/Agrayne/Ranobot/api/adapters/words"
	"github.com/Agrayne/Ranobot/api/core"
)

const (
	SubjectSearchCompleted  = "ranobot.search.completed"
	SubjectForecastComputed = "ranobot.forecast.computed"
)

type SearchCompletedEvent struct {
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
	Sort     string   `json:"sort"`
	License  string   `json:"license"`
	Kind     string   `json:"kind"`
	Total    int      `json:"total"`
}

type ForecastComputedEvent struct {
	SeriesID int    `json:"series_id"`
	Track    string `json:"track"`
	Date     string `json:"date"`
	Volume   int    `json:"volume"`
}

type NatsPublisher struct {
	log *slog.Logger
	nc  *nats.Conn
}

func NewNatsPublisher(address string, log *slog.Logger) (*NatsPublisher, error) {
	nc, err := nats.Connect(address, nats.Name("ranobot-api"))
	if err != nil {
		return nil, err
	}
	log.Info("connected to broker", "address", address)

	return &NatsPublisher{
		log: log,
		nc:  nc,
	}, nil
}

func (p *NatsPublisher) SearchCompleted(ctx context.Context, q core.SearchQuery, outcome core.Outcome) error {
	return p.publish(ctx, SubjectSearchCompleted, NewSearchCompletedEvent(q, outcome))
}

func (p *NatsPublisher) ForecastComputed(ctx context.Context, seriesID int, f core.ForecastPoint) error {
	return p.publish(ctx, SubjectForecastComputed, NewForecastComputedEvent(seriesID, f))
}

func (p *NatsPublisher) publish(ctx context.Context, subject string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return err
	}
	p.log.Debug("event published", "subject", subject)

	return p.nc.Flush()
}

func (p *NatsPublisher) Close() error {
	p.nc.Close()
	return nil
}

func NewSearchCompletedEvent(q core.SearchQuery, outcome core.Outcome) SearchCompletedEvent {
	ev := SearchCompletedEvent{
		Title:    q.Title,
		Keywords: words.Keywords(q.Title),
		Sort:     string(q.Sort),
		License:  q.License.String(),
		Kind:     core.OutcomeKind(outcome),
	}
	switch o := outcome.(type) {
	case core.Overflow:
		ev.Total = o.Count
	case core.Single:
		ev.Total = 1
	case core.Paginated:
		ev.Total = o.Total
	}
	return ev
}

func NewForecastComputedEvent(seriesID int, f core.ForecastPoint) ForecastComputedEvent {
	return ForecastComputedEvent{
		SeriesID: seriesID,
		Track:    string(f.Track),
		Date:     f.Date.Format("2006-01-02"),
		Volume:   f.Volume,
	}
}

// Noop drops every event. Used when no broker address is configured.
type Noop struct{}

func (Noop) SearchCompleted(context.Context, core.SearchQuery, core.Outcome) error { return nil }

func (Noop) ForecastComputed(context.Context, int, core.ForecastPoint) error { return nil }

func (Noop) Close() error { return nil }
