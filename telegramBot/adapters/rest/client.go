package rest

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

	"github.com/Agrayne/Ranobot/telegramBot/core"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Endpoint GET /api/search
func (c *Client) Search(ctx context.Context, sr core.SearchRequest) (core.SearchResponse, error) {
	params := url.Values{}
	params.Set("title", sr.Title)
	if sr.Sort != "" {
		params.Set("sort", sr.Sort)
	}
	if sr.License != "" {
		params.Set("license", sr.License)
	}

	var reply core.SearchResponse
	if err := c.get(ctx, c.baseURL+"/api/search?"+params.Encode(), &reply); err != nil {
		return core.SearchResponse{}, fmt.Errorf("search failed: %w", err)
	}
	return reply, nil
}

// Endpoint GET /api/series/{id}
func (c *Client) Series(ctx context.Context, id int) (core.SeriesResponse, error) {
	var reply core.SeriesResponse
	if err := c.get(ctx, c.baseURL+"/api/series/"+strconv.Itoa(id), &reply); err != nil {
		return core.SeriesResponse{}, fmt.Errorf("series failed: %w", err)
	}
	return reply, nil
}

func (c *Client) get(ctx context.Context, u string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		if e := resp.Body.Close(); e != nil {
			c.log.Debug("close body failed", "error", e)
		}
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s", core.ErrBadRequest, strings.TrimSpace(string(msg)))
	case http.StatusNotFound:
		return core.ErrNotFound
	default:
		return fmt.Errorf("status: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
