package core

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const storeSeriesURL = "https://bookwalker.jp/series/%s/"

// ParseSeries validates a catalog record and assembles the series detail
// with its release timeline. Projections are left to the caller.
func ParseSeries(rec SeriesRecord, imagesURL string) (SeriesDetail, error) {
	if rec.ID <= 0 || strings.TrimSpace(rec.Title) == "" {
		return SeriesDetail{}, fmt.Errorf("series %d: missing id or title: %w", rec.ID, ErrMalformedRecord)
	}
	if len(rec.Books) == 0 {
		return SeriesDetail{}, fmt.Errorf("series %d: no volumes: %w", rec.ID, ErrMalformedRecord)
	}

	volumes := make([]Volume, 0, len(rec.Books))
	for _, b := range rec.Books {
		v, err := parseVolume(b)
		if err != nil {
			return SeriesDetail{}, fmt.Errorf("series %d: %w", rec.ID, err)
		}
		volumes = append(volumes, v)
	}
	slices.SortStableFunc(volumes, func(a, b Volume) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})

	locale := Locale(rec.Locale)
	d := SeriesDetail{
		ID:             rec.ID,
		Title:          rec.Title,
		OriginalTitle:  rec.TitleOrig,
		Romaji:         rec.Romaji,
		OriginalRomaji: rec.RomajiOrig,
		Description:    rec.Description,
		Status:         Status(strings.ToLower(rec.PublicationStatus)),
		Locale:         locale,
		Tags:           capitalize(rec.Tags),
		Volumes:        volumes,
	}
	if locale == LocaleJA {
		d.Description = rec.DescriptionJA
	}
	if rec.BookwalkerID != "" {
		d.StoreURL = fmt.Sprintf(storeSeriesURL, rec.BookwalkerID)
	}
	if rec.StartDate != "" {
		start, err := ParseCompactDate(rec.StartDate, "start date")
		if err != nil {
			return SeriesDetail{}, fmt.Errorf("series %d: %w", rec.ID, err)
		}
		d.StartDate = &start
	}

	for _, v := range volumes {
		if v.Locale == LocaleEN {
			d.Licensed = true
		}
		if d.ImageURL == "" && v.ImageFilename != "" {
			d.ImageURL = imagesURL + v.ImageFilename
		}
	}

	tl, err := BuildTimeline(volumes)
	if err != nil {
		return SeriesDetail{}, fmt.Errorf("series %d: %w", rec.ID, err)
	}
	d.Timeline = tl
	d.FirstReleased, d.LatestReleased = releaseMarks(tl)

	return d, nil
}

// Project attaches per-track projections. Forecasts are produced only for
// ongoing series.
func Project(d SeriesDetail, today time.Time) (SeriesDetail, []error) {
	var errs []error
	d.Projections = make([]Projection, 0, 2)
	for _, track := range d.Timeline.Tracks() {
		p, err := Predict(track, d.Status == StatusOngoing, today)
		if err != nil {
			errs = append(errs, err)
		}
		d.Projections = append(d.Projections, p)
	}
	return d, errs
}

func parseVolume(b BookRecord) (Volume, error) {
	v := Volume{
		ID:            b.ID,
		Locale:        Locale(b.Locale),
		TitleJA:       firstNonEmpty(b.TitleOrig, b.Title),
		SortOrder:     b.SortOrder,
		ImageFilename: b.ImageFilename,
	}
	if v.Locale == LocaleEN {
		v.TitleEN = b.Title
	}
	label := fmt.Sprintf("book %d", b.ID)
	if b.ReleaseJA != "" {
		d, err := ParseCompactDate(b.ReleaseJA, label+" ja")
		if err != nil {
			return Volume{}, err
		}
		v.ReleaseJA = &d
	}
	if v.Locale == LocaleEN && b.ReleaseEN != "" {
		d, err := ParseCompactDate(b.ReleaseEN, label+" en")
		if err != nil {
			return Volume{}, err
		}
		v.ReleaseEN = &d
	}
	return v, nil
}

func releaseMarks(tl Timeline) (first, latest *ReleaseMark) {
	if pts := tl.JA.Points; len(pts) > 0 {
		first = &ReleaseMark{Date: pts[0].Date, Locale: LocaleJA}
	}
	for _, track := range tl.Tracks() {
		if len(track.Points) == 0 {
			continue
		}
		last := track.Points[len(track.Points)-1].Date
		if latest == nil || last.After(latest.Date) {
			latest = &ReleaseMark{Date: last, Locale: track.Locale}
		}
	}
	return first, latest
}

func capitalize(tags []string) []string {
	caser := cases.Title(language.English)
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, caser.String(t))
	}
	return out
}
