package core

import (
	"fmt"
	"math"
	"time"
)

// Predict computes gap statistics for a track and, when shouldPredict is
// set, extrapolates the next release. Tracks with fewer than two points
// yield neither.
func Predict(track Track, shouldPredict bool, today time.Time) (Projection, error) {
	p := Projection{Track: track.Locale}
	points := track.Points
	if len(points) < 2 {
		p.Reason = ReasonTooFewReleases
		return p, nil
	}

	var months, days float64
	for i := 1; i < len(points); i++ {
		prev, next := points[i-1].Date, points[i].Date
		if next.Before(prev) {
			p.Reason = ReasonUnorderedDates
			return p, fmt.Errorf("%s volume %d: %w", track.Locale, points[i].SortOrder, ErrUnorderedTrack)
		}
		months += float64(monthsBetween(prev, next))
		days += next.Sub(prev).Hours() / 24
	}
	gaps := float64(len(points) - 1)
	p.Stats = &GapStats{
		MeanMonths: months / gaps,
		MeanDays:   days / gaps,
	}

	if !shouldPredict {
		return p, nil
	}

	last := points[len(points)-1]
	predicted := last.Date.AddDate(0, 0, int(math.Floor(p.Stats.MeanDays)))
	if today := dateOf(today); predicted.Before(today) {
		predicted = today
	}

	volume := last.SortOrder + 1
	p.Forecast = &ForecastPoint{
		Track:  track.Locale,
		Date:   predicted,
		Volume: volume,
		Label:  fmt.Sprintf("Vol. %d", volume),
	}
	return p, nil
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
