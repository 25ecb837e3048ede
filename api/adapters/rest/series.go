package rest

import (
	"time"

	"github.com/Agrayne/Ranobot/api/core"
)

type ReleaseResponse struct {
	Date   string `json:"date"`
	Locale string `json:"locale"`
}

type VolumeResponse struct {
	ID        int    `json:"id"`
	SortOrder int    `json:"sort_order"`
	Locale    string `json:"locale"`
	TitleJA   string `json:"title_ja,omitempty"`
	TitleEN   string `json:"title_en,omitempty"`
	ReleaseJA string `json:"release_ja,omitempty"`
	ReleaseEN string `json:"release_en,omitempty"`
}

type PointResponse struct {
	SortOrder int    `json:"sort_order"`
	Label     string `json:"label"`
	Date      string `json:"date"`
}

type TrackResponse struct {
	Locale string          `json:"locale"`
	Latest string          `json:"latest"`
	Points []PointResponse `json:"points"`
}

type StatsResponse struct {
	MeanMonths float64 `json:"mean_months"`
	MeanDays   float64 `json:"mean_days"`
}

type ForecastResponse struct {
	Date   string `json:"date"`
	Volume int    `json:"volume"`
	Label  string `json:"label"`
}

type ProjectionResponse struct {
	Track    string            `json:"track"`
	Stats    *StatsResponse    `json:"stats,omitempty"`
	Forecast *ForecastResponse `json:"forecast,omitempty"`
	Reason   string            `json:"reason,omitempty"`
}

type SeriesResponse struct {
	ID             int                  `json:"id"`
	Title          string               `json:"title"`
	OriginalTitle  string               `json:"original_title,omitempty"`
	Romaji         string               `json:"romaji,omitempty"`
	OriginalRomaji string               `json:"original_romaji,omitempty"`
	Description    string               `json:"description,omitempty"`
	Status         string               `json:"status"`
	Locale         string               `json:"locale"`
	StartDate      string               `json:"start_date,omitempty"`
	FirstReleased  *ReleaseResponse     `json:"first_released,omitempty"`
	LatestReleased *ReleaseResponse     `json:"latest_released,omitempty"`
	ImageURL       string               `json:"image_url,omitempty"`
	StoreURL       string               `json:"store_url,omitempty"`
	Tags           []string             `json:"tags"`
	Licensed       bool                 `json:"licensed"`
	Volumes        []VolumeResponse     `json:"volumes"`
	Timeline       []TrackResponse      `json:"timeline"`
	Projections    []ProjectionResponse `json:"projections"`
}

func NewSeriesResponse(d core.SeriesDetail) SeriesResponse {
	reply := SeriesResponse{
		ID:             d.ID,
		Title:          d.Title,
		OriginalTitle:  d.OriginalTitle,
		Romaji:         d.Romaji,
		OriginalRomaji: d.OriginalRomaji,
		Description:    d.Description,
		Status:         string(d.Status),
		Locale:         string(d.Locale),
		StartDate:      formatDate(d.StartDate),
		FirstReleased:  releaseOf(d.FirstReleased),
		LatestReleased: releaseOf(d.LatestReleased),
		ImageURL:       d.ImageURL,
		StoreURL:       d.StoreURL,
		Tags:           d.Tags,
		Licensed:       d.Licensed,
		Volumes:        make([]VolumeResponse, 0, len(d.Volumes)),
		Timeline:       make([]TrackResponse, 0, 2),
		Projections:    make([]ProjectionResponse, 0, len(d.Projections)),
	}
	if reply.Tags == nil {
		reply.Tags = []string{}
	}

	for _, v := range d.Volumes {
		reply.Volumes = append(reply.Volumes, VolumeResponse{
			ID:        v.ID,
			SortOrder: v.SortOrder,
			Locale:    string(v.Locale),
			TitleJA:   v.TitleJA,
			TitleEN:   v.TitleEN,
			ReleaseJA: formatDate(v.ReleaseJA),
			ReleaseEN: formatDate(v.ReleaseEN),
		})
	}

	for _, tr := range d.Timeline.Tracks() {
		track := TrackResponse{
			Locale: string(tr.Locale),
			Latest: tr.Latest,
			Points: make([]PointResponse, 0, len(tr.Points)),
		}
		for _, p := range tr.Points {
			track.Points = append(track.Points, PointResponse{
				SortOrder: p.SortOrder,
				Label:     p.Label,
				Date:      p.Date.Format(dateLayout),
			})
		}
		reply.Timeline = append(reply.Timeline, track)
	}

	for _, p := range d.Projections {
		pr := ProjectionResponse{Track: string(p.Track), Reason: p.Reason}
		if p.Stats != nil {
			pr.Stats = &StatsResponse{MeanMonths: p.Stats.MeanMonths, MeanDays: p.Stats.MeanDays}
		}
		if p.Forecast != nil {
			pr.Forecast = &ForecastResponse{
				Date:   p.Forecast.Date.Format(dateLayout),
				Volume: p.Forecast.Volume,
				Label:  p.Forecast.Label,
			}
		}
		reply.Projections = append(reply.Projections, pr)
	}
	return reply
}

func releaseOf(m *core.ReleaseMark) *ReleaseResponse {
	if m == nil {
		return nil
	}
	return &ReleaseResponse{Date: m.Date.Format(dateLayout), Locale: string(m.Locale)}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
