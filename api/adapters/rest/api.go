package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Agrayne/Ranobot/api/adapters/rest/middleware"
	"github.com/Agrayne/Ranobot/api/core"
)

const dateLayout = "2006-01-02"

// statusClientClosedRequest is nginx's code for a request the client dropped.
const statusClientClosedRequest = 499

type PingResponse struct {
	Replies map[string]string `json:"replies"`
}

func NewPingHandler(log *slog.Logger, pingers map[string]core.Pinger) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {
		reply := PingResponse{
			Replies: make(map[string]string),
		}
		for name, pinger := range pingers {
			if err := pinger.Ping(r.Context()); err != nil {
				reply.Replies[name] = "unavailable"
				log.Error("one of services is not available", "service", name, "error", err)
				continue
			}
			reply.Replies[name] = "ok"
		}
		writeJSON(w, log, reply)
	}
}

type EntryResponse struct {
	Serial int    `json:"serial"`
	Title  string `json:"title"`
	ID     int    `json:"id"`
}

type PageResponse struct {
	Page    int             `json:"page"`
	Entries []EntryResponse `json:"entries"`
}

type SearchResponse struct {
	Kind   string          `json:"kind"`
	Total  int             `json:"total"`
	Pages  []PageResponse  `json:"pages,omitempty"`
	Series *SeriesResponse `json:"series,omitempty"`
}

func NewSearchHandler(log *slog.Logger, searcher core.Searcher, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		params := r.URL.Query()
		sort, err := core.ParseSort(params.Get("sort"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		license, err := core.ParseLicense(params.Get("license"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		q, err := core.NewSearchQuery(params.Get("title"), sort, license)
		if err != nil {
			log.Debug("bad search request", "error", err)
			http.Error(w, "empty title", http.StatusBadRequest)
			return
		}

		ctx, cancel := withTimeout(r.Context(), timeout)
		defer cancel()

		outcome, err := searcher.Search(ctx, q)
		if err != nil {
			writeError(w, r, log, "search failed", err)
			return
		}

		writeJSON(w, log, NewSearchResponse(outcome))
	}
}

func NewSearchResponse(outcome core.Outcome) SearchResponse {
	reply := SearchResponse{Kind: core.OutcomeKind(outcome)}
	switch o := outcome.(type) {
	case core.Overflow:
		reply.Total = o.Count
	case core.Single:
		reply.Total = 1
		series := NewSeriesResponse(o.Series)
		reply.Series = &series
	case core.Paginated:
		reply.Total = o.Total
		reply.Pages = make([]PageResponse, 0, len(o.Pages))
		for _, p := range o.Pages {
			page := PageResponse{Page: p.Number, Entries: make([]EntryResponse, 0, len(p.Entries))}
			for _, e := range p.Entries {
				page.Entries = append(page.Entries, EntryResponse{Serial: e.Serial, Title: e.Title, ID: e.ID})
			}
			reply.Pages = append(reply.Pages, page)
		}
	}
	return reply
}

func NewSeriesHandler(log *slog.Logger, searcher core.Searcher, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil || id <= 0 {
			http.Error(w, "invalid series id", http.StatusBadRequest)
			return
		}

		ctx, cancel := withTimeout(r.Context(), timeout)
		defer cancel()

		detail, err := searcher.Series(ctx, id)
		if err != nil {
			writeError(w, r, log, "series failed", err)
			return
		}

		writeJSON(w, log, NewSeriesResponse(detail))
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, msg string, err error) {
	requestID := middleware.RequestIDFrom(r.Context())
	switch {
	case errors.Is(err, core.ErrBadArguments):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, context.Canceled):
		log.Debug(msg+": client went away", "error", err, "request_id", requestID)
		w.WriteHeader(statusClientClosedRequest)
	case errors.Is(err, context.DeadlineExceeded):
		log.Error(msg, "error", err, "request_id", requestID)
		http.Error(w, "catalog timeout", http.StatusGatewayTimeout)
	case errors.Is(err, core.ErrUpstreamUnavailable),
		errors.Is(err, core.ErrMalformedRecord),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyTimeline):
		log.Error(msg, "error", err, "request_id", requestID)
		http.Error(w, "catalog error", http.StatusBadGateway)
	default:
		log.Error(msg, "error", err, "request_id", requestID)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("cannot encode reply", "error", err)
	}
}
