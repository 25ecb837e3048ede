package core

import "errors"

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
)

const (
	KindEmpty     = "empty"
	KindOverflow  = "overflow"
	KindSingle    = "single"
	KindPaginated = "paginated"
)

// PageSize matches the api page size, serial n lives on page (n-1)/PageSize+1.
const PageSize = 10

type SearchEntry struct {
	Serial int    `json:"serial"`
	Title  string `json:"title"`
	ID     int    `json:"id"`
}

type SearchPage struct {
	Page    int           `json:"page"`
	Entries []SearchEntry `json:"entries"`
}

type SearchResponse struct {
	Kind   string          `json:"kind"`
	Total  int             `json:"total"`
	Pages  []SearchPage    `json:"pages"`
	Series *SeriesResponse `json:"series"`
}

// Lookup finds the entry with the given serial number.
func (r SearchResponse) Lookup(serial int) (SearchEntry, bool) {
	p, ok := r.Page((serial-1)/PageSize + 1)
	if !ok || serial < 1 {
		return SearchEntry{}, false
	}
	for _, e := range p.Entries {
		if e.Serial == serial {
			return e, true
		}
	}
	return SearchEntry{}, false
}

func (r SearchResponse) Page(n int) (SearchPage, bool) {
	if n < 1 || n > len(r.Pages) {
		return SearchPage{}, false
	}
	return r.Pages[n-1], true
}

type Release struct {
	Date   string `json:"date"`
	Locale string `json:"locale"`
}

type Point struct {
	SortOrder int    `json:"sort_order"`
	Label     string `json:"label"`
	Date      string `json:"date"`
}

type Track struct {
	Locale string  `json:"locale"`
	Latest string  `json:"latest"`
	Points []Point `json:"points"`
}

type Stats struct {
	MeanMonths float64 `json:"mean_months"`
	MeanDays   float64 `json:"mean_days"`
}

type Forecast struct {
	Date   string `json:"date"`
	Volume int    `json:"volume"`
	Label  string `json:"label"`
}

// ReasonUnorderedDates marks a track whose release dates go backwards.
const ReasonUnorderedDates = "unordered_dates"

type Projection struct {
	Track    string    `json:"track"`
	Stats    *Stats    `json:"stats"`
	Forecast *Forecast `json:"forecast"`
	Reason   string    `json:"reason"`
}

type SeriesResponse struct {
	ID             int          `json:"id"`
	Title          string       `json:"title"`
	OriginalTitle  string       `json:"original_title"`
	Romaji         string       `json:"romaji"`
	OriginalRomaji string       `json:"original_romaji"`
	Description    string       `json:"description"`
	Status         string       `json:"status"`
	Locale         string       `json:"locale"`
	StartDate      string       `json:"start_date"`
	FirstReleased  *Release     `json:"first_released"`
	LatestReleased *Release     `json:"latest_released"`
	ImageURL       string       `json:"image_url"`
	StoreURL       string       `json:"store_url"`
	Tags           []string     `json:"tags"`
	Licensed       bool         `json:"licensed"`
	Timeline       []Track      `json:"timeline"`
	Projections    []Projection `json:"projections"`
}

// SearchRequest is a parsed /search command.
type SearchRequest struct {
	Title   string
	Sort    string
	License string
}
