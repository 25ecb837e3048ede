package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	// PageSize is the number of entries shown on one result page.
	PageSize = 10
	// OverflowThreshold is the largest match count that is still paginated.
	OverflowThreshold = 5800

	// CatalogPageLimit is the number of items requested per catalog page.
	CatalogPageLimit = 100
)

type Sort string

const (
	SortRelevanceDesc Sort = "Relevance desc"
	SortRelevanceAsc  Sort = "Relevance asc"
	SortTitleAsc      Sort = "Title asc"
	SortTitleDesc     Sort = "Title desc"
	SortReleaseAsc    Sort = "Release date asc"
	SortReleaseDesc   Sort = "Release date desc"
)

var sorts = []Sort{
	SortRelevanceDesc,
	SortRelevanceAsc,
	SortTitleAsc,
	SortTitleDesc,
	SortReleaseAsc,
	SortReleaseDesc,
}

// Sorts returns every accepted sort order, default first.
func Sorts() []Sort {
	return append([]Sort(nil), sorts...)
}

// ParseSort accepts the catalog spelling of a sort order in any case.
// An empty string selects SortRelevanceDesc.
func ParseSort(s string) (Sort, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortRelevanceDesc, nil
	}
	for _, v := range sorts {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown sort %q: %w", s, ErrBadArguments)
}

type License int

const (
	LicenseAny License = iota
	LicenseLicensed
	LicenseUnlicensed
)

func (l License) String() string {
	switch l {
	case LicenseLicensed:
		return "licensed"
	case LicenseUnlicensed:
		return "unlicensed"
	default:
		return "any"
	}
}

func ParseLicense(s string) (License, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return LicenseAny, nil
	case "licensed":
		return LicenseLicensed, nil
	case "unlicensed":
		return LicenseUnlicensed, nil
	default:
		return LicenseAny, fmt.Errorf("unknown license filter %q: %w", s, ErrBadArguments)
	}
}

type SearchQuery struct {
	Title   string
	Sort    Sort
	License License
}

func NewSearchQuery(title string, sort Sort, license License) (SearchQuery, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return SearchQuery{}, fmt.Errorf("empty title: %w", ErrBadArguments)
	}
	if sort == "" {
		sort = SortRelevanceDesc
	}
	return SearchQuery{Title: title, Sort: sort, License: license}, nil
}

type Locale string

const (
	LocaleJA Locale = "ja"
	LocaleEN Locale = "en"
)

type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// SearchItem is one series as listed by a catalog search page.
type SearchItem struct {
	ID         int
	Title      string
	RomajiOrig string
	Locale     Locale
}

// DisplayTitle is the localized title shown in result lists.
func (i SearchItem) DisplayTitle() string {
	if i.Locale == LocaleEN || strings.TrimSpace(i.RomajiOrig) == "" {
		return i.Title
	}
	return i.RomajiOrig
}

// SearchPage is a single page of a catalog search.
type SearchPage struct {
	Count      int
	TotalPages int
	// PerPage is the page size the catalog was asked for, zero means
	// CatalogPageLimit.
	PerPage int
	Items   []SearchItem
}

// Item is a flat result before pagination.
type Item struct {
	Title string
	ID    int
}

type Entry struct {
	Serial int
	Title  string
	ID     int
}

type Page struct {
	Number  int
	Entries []Entry
}

// Outcome is the result of a search. The concrete type is one of
// Empty, Overflow, Single or Paginated.
type Outcome interface {
	outcome()
}

type Empty struct{}

type Overflow struct {
	Count int
}

type Single struct {
	Series SeriesDetail
}

type Paginated struct {
	Total int
	Pages []Page
}

func (Empty) outcome()     {}
func (Overflow) outcome()  {}
func (Single) outcome()    {}
func (Paginated) outcome() {}

// Lookup resolves a serial number to its entry without another catalog call.
func (p Paginated) Lookup(serial int) (Entry, bool) {
	if serial < 1 {
		return Entry{}, false
	}
	page, ok := p.Page((serial-1)/PageSize + 1)
	if !ok {
		return Entry{}, false
	}
	idx := (serial - 1) % PageSize
	if idx >= len(page.Entries) {
		return Entry{}, false
	}
	return page.Entries[idx], true
}

func (p Paginated) Page(number int) (Page, bool) {
	if number < 1 || number > len(p.Pages) {
		return Page{}, false
	}
	return p.Pages[number-1], true
}

// SeriesRecord is a catalog series record before validation. Dates are
// compact YYYYMMDD strings, empty when the catalog has none.
type SeriesRecord struct {
	ID                int
	Title             string
	TitleOrig         string
	Romaji            string
	RomajiOrig        string
	Description       string
	DescriptionJA     string
	PublicationStatus string
	StartDate         string
	BookwalkerID      string
	Locale            string
	Tags              []string
	Books             []BookRecord
}

type BookRecord struct {
	ID            int
	Locale        string
	Title         string
	TitleOrig     string
	SortOrder     int
	ReleaseJA     string
	ReleaseEN     string
	ImageFilename string
}

type Volume struct {
	ID            int
	Locale        Locale
	TitleJA       string
	TitleEN       string
	SortOrder     int
	ReleaseJA     *time.Time
	ReleaseEN     *time.Time
	ImageFilename string
}

// ReleaseMark is a release date together with the locale it belongs to.
type ReleaseMark struct {
	Date   time.Time
	Locale Locale
}

type SeriesDetail struct {
	ID             int
	Title          string
	OriginalTitle  string
	Romaji         string
	OriginalRomaji string
	Description    string
	Status         Status
	StartDate      *time.Time
	FirstReleased  *ReleaseMark
	LatestReleased *ReleaseMark
	ImageURL       string
	StoreURL       string
	Locale         Locale
	Tags           []string
	Licensed       bool
	Volumes        []Volume
	Timeline       Timeline
	Projections    []Projection
}

type TimelinePoint struct {
	SortOrder int
	Label     string
	Date      time.Time
}

type Track struct {
	Locale Locale
	Points []TimelinePoint
	Latest string
}

type Timeline struct {
	JA Track
	EN *Track
}

// Tracks returns the present tracks, JA first.
func (t Timeline) Tracks() []Track {
	tracks := []Track{t.JA}
	if t.EN != nil {
		tracks = append(tracks, *t.EN)
	}
	return tracks
}

type GapStats struct {
	MeanMonths float64
	MeanDays   float64
}

type ForecastPoint struct {
	Track  Locale
	Date   time.Time
	Volume int
	Label  string
}

// Reasons a projection carries no statistics.
const (
	ReasonTooFewReleases = "too_few_releases"
	ReasonUnorderedDates = "unordered_dates"
)

type Projection struct {
	Track    Locale
	Stats    *GapStats
	Forecast *ForecastPoint
	// Reason is set when Stats is nil.
	Reason string
}
