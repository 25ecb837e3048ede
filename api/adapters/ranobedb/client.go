package ranobedb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Agrayne/Ranobot/api/core"
)

const pageLimit = core.CatalogPageLimit

type Client struct {
	log     *slog.Logger
	client  http.Client
	url     string
	limiter *rate.Limiter
}

// NewClient builds a catalog client. rps <= 0 disables client side limiting.
func NewClient(baseURL string, timeout time.Duration, rps int, log *slog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("empty base url specified")
	}
	c := &Client{
		log:    log,
		client: http.Client{Timeout: timeout},
		url:    strings.TrimRight(baseURL, "/"),
	}
	if rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return c, nil
}

type searchResp struct {
	Count      flexInt      `json:"count"`
	TotalPages flexInt      `json:"totalPages"`
	Series     []searchItem `json:"series"`
}

type searchItem struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	RomajiOrig string `json:"romaji_orig"`
	Lang       string `json:"lang"`
}

func (c *Client) SearchPage(ctx context.Context, q core.SearchQuery, page int) (core.SearchPage, error) {
	params := url.Values{}
	params.Set("q", q.Title)
	params.Set("sort", string(q.Sort))
	params.Set("limit", strconv.Itoa(pageLimit))
	params.Set("page", strconv.Itoa(page))
	switch q.License {
	case core.LicenseLicensed:
		params.Set("rl", string(core.LocaleEN))
	case core.LicenseUnlicensed:
		params.Set("rlExclude", string(core.LocaleEN))
	}

	var sr searchResp
	if err := c.get(ctx, c.url+"/series?"+params.Encode(), &sr); err != nil {
		return core.SearchPage{}, fmt.Errorf("search %q page %d: %w", q.Title, page, err)
	}

	items := make([]core.SearchItem, 0, len(sr.Series))
	for _, s := range sr.Series {
		items = append(items, core.SearchItem{
			ID:         s.ID,
			Title:      s.Title,
			RomajiOrig: s.RomajiOrig,
			Locale:     core.Locale(s.Lang),
		})
	}
	return core.SearchPage{
		Count:      int(sr.Count),
		TotalPages: int(sr.TotalPages),
		PerPage:    pageLimit,
		Items:      items,
	}, nil
}

type seriesResp struct {
	Series *seriesBody `json:"series"`
}

type seriesBody struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	TitleOrig       string     `json:"title_orig"`
	Romaji          string     `json:"romaji"`
	RomajiOrig      string     `json:"romaji_orig"`
	BookDescription struct {
		Description   string `json:"description"`
		DescriptionJA string `json:"description_ja"`
	} `json:"book_description"`
	PublicationStatus string     `json:"publication_status"`
	StartDate         flexString `json:"start_date"`
	BookwalkerID      flexString `json:"bookwalker_id"`
	Lang              string     `json:"lang"`
	Tags              []struct {
		Name string `json:"name"`
	} `json:"tags"`
	Books []book `json:"books"`
}

type book struct {
	ID           int    `json:"id"`
	Lang         string `json:"lang"`
	Title        string `json:"title"`
	TitleOrig    string `json:"title_orig"`
	SortOrder    int    `json:"sort_order"`
	ReleaseDates struct {
		JA flexString `json:"ja"`
		EN flexString `json:"en"`
	} `json:"c_release_dates"`
	Image *struct {
		Filename string `json:"filename"`
	} `json:"image"`
}

func (c *Client) Series(ctx context.Context, id int) (core.SeriesRecord, error) {
	var sr seriesResp
	if err := c.get(ctx, fmt.Sprintf("%s/series/%d", c.url, id), &sr); err != nil {
		return core.SeriesRecord{}, err
	}
	if sr.Series == nil {
		return core.SeriesRecord{}, fmt.Errorf("series %d: no series object: %w", id, core.ErrMalformedRecord)
	}

	s := sr.Series
	rec := core.SeriesRecord{
		ID:                s.ID,
		Title:             s.Title,
		TitleOrig:         s.TitleOrig,
		Romaji:            s.Romaji,
		RomajiOrig:        s.RomajiOrig,
		Description:       s.BookDescription.Description,
		DescriptionJA:     s.BookDescription.DescriptionJA,
		PublicationStatus: s.PublicationStatus,
		StartDate:         string(s.StartDate),
		BookwalkerID:      string(s.BookwalkerID),
		Locale:            s.Lang,
		Tags:              make([]string, 0, len(s.Tags)),
		Books:             make([]core.BookRecord, 0, len(s.Books)),
	}
	for _, t := range s.Tags {
		rec.Tags = append(rec.Tags, t.Name)
	}
	for _, b := range s.Books {
		br := core.BookRecord{
			ID:        b.ID,
			Locale:    b.Lang,
			Title:     b.Title,
			TitleOrig: b.TitleOrig,
			SortOrder: b.SortOrder,
			ReleaseJA: string(b.ReleaseDates.JA),
			ReleaseEN: string(b.ReleaseDates.EN),
		}
		if b.Image != nil {
			br.ImageFilename = b.Image.Filename
		}
		rec.Books = append(rec.Books, br)
	}
	return rec, nil
}

func (c *Client) Ping(ctx context.Context) error {
	var sr searchResp
	return c.get(ctx, c.url+"/series?limit=1", &sr)
}

func (c *Client) get(ctx context.Context, u string, dst any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrUpstreamUnavailable, err)
	}

	defer func() {
		if e := resp.Body.Close(); e != nil {
			c.log.Debug("close body failed", "error", e)
		}
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return core.ErrNotFound
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: http %d", core.ErrUpstreamUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", core.ErrMalformedRecord, err)
	}
	return nil
}
