package ranobedb

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agrayne/Ranobot/api/core"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/", time.Second, 0, newTestLogger())
	require.NoError(t, err)
	return c
}

func TestNewClient_EmptyURL(t *testing.T) {
	c, err := NewClient("", time.Second, 0, newTestLogger())
	require.Error(t, err)
	assert.Nil(t, c)
}

func TestSearchPage_OK(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "mushoku", q.Get("q"))
		assert.Equal(t, "Title asc", q.Get("sort"))
		assert.Equal(t, "100", q.Get("limit"))
		assert.Equal(t, "3", q.Get("page"))
		assert.Equal(t, "en", q.Get("rl"))
		assert.Empty(t, q.Get("rlExclude"))

		_, _ = io.WriteString(w, `{"count":"212","totalPages":3,"series":[
			{"id":7,"title":"Jobless","romaji_orig":"Mushoku Tensei","lang":"ja"},
			{"id":8,"title":"Jobless EN","romaji_orig":"","lang":"en"}]}`)
	})

	q := core.SearchQuery{Title: "mushoku", Sort: core.SortTitleAsc, License: core.LicenseLicensed}
	sp, err := c.SearchPage(context.Background(), q, 3)
	require.NoError(t, err)

	assert.Equal(t, 212, sp.Count)
	assert.Equal(t, 3, sp.TotalPages)
	assert.Equal(t, 100, sp.PerPage)
	require.Len(t, sp.Items, 2)
	assert.Equal(t, core.SearchItem{ID: 7, Title: "Jobless", RomajiOrig: "Mushoku Tensei", Locale: core.LocaleJA}, sp.Items[0])
	assert.Equal(t, "Jobless EN", sp.Items[1].DisplayTitle())
}

func TestSearchPage_Unlicensed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.URL.Query().Get("rlExclude"))
		assert.Empty(t, r.URL.Query().Get("rl"))
		_, _ = io.WriteString(w, `{"count":0,"totalPages":0,"series":[]}`)
	})

	q := core.SearchQuery{Title: "x", Sort: core.SortRelevanceDesc, License: core.LicenseUnlicensed}
	sp, err := c.SearchPage(context.Background(), q, 1)
	require.NoError(t, err)
	assert.Zero(t, sp.Count)
	assert.Empty(t, sp.Items)
}

func TestSearchPage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "oops", http.StatusInternalServerError)
			},
			want: core.ErrUpstreamUnavailable,
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"count":`)
			},
			want: core.ErrMalformedRecord,
		},
		{
			name: "bad count",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"count":"many","totalPages":1,"series":[]}`)
			},
			want: core.ErrMalformedRecord,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, tc.handler)
			_, err := c.SearchPage(context.Background(), core.SearchQuery{Title: "x"}, 1)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSearchPage_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := NewClient(addr, time.Second, 0, newTestLogger())
	require.NoError(t, err)

	_, err = c.SearchPage(context.Background(), core.SearchQuery{Title: "x"}, 1)
	require.ErrorIs(t, err, core.ErrUpstreamUnavailable)
}

const seriesJSON = `{"series":{
	"id":42,"title":"The Series","title_orig":"シリーズ","romaji":"The Series","romaji_orig":"Shiriizu",
	"book_description":{"description":"en text","description_ja":"日本語"},
	"publication_status":"ongoing","start_date":20200110,"bookwalker_id":"abc-1","lang":"ja",
	"tags":[{"name":"fantasy"},{"name":"isekai"}],
	"books":[
		{"id":1,"lang":"en","title":"Volume 1","title_orig":"第1巻","sort_order":1,
		 "c_release_dates":{"ja":20200110,"en":"20201201"},"image":{"filename":"one.jpg"}},
		{"id":2,"lang":"ja","title":"","title_orig":"第2巻","sort_order":2,
		 "c_release_dates":{"ja":20200699,"en":0},"image":null}
	]}}`

func TestSeries_OK(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/42", r.URL.Path)
		_, _ = io.WriteString(w, seriesJSON)
	})

	rec, err := c.Series(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 42, rec.ID)
	assert.Equal(t, "Shiriizu", rec.RomajiOrig)
	assert.Equal(t, "日本語", rec.DescriptionJA)
	assert.Equal(t, "20200110", rec.StartDate)
	assert.Equal(t, "abc-1", rec.BookwalkerID)
	assert.Equal(t, []string{"fantasy", "isekai"}, rec.Tags)
	require.Len(t, rec.Books, 2)

	assert.Equal(t, core.BookRecord{
		ID: 1, Locale: "en", Title: "Volume 1", TitleOrig: "第1巻", SortOrder: 1,
		ReleaseJA: "20200110", ReleaseEN: "20201201", ImageFilename: "one.jpg",
	}, rec.Books[0])
	assert.Equal(t, "20200699", rec.Books[1].ReleaseJA)
	assert.Empty(t, rec.Books[1].ReleaseEN)
	assert.Empty(t, rec.Books[1].ImageFilename)

	// запись из адаптера должна проходить валидацию ядра
	d, err := core.ParseSeries(rec, "https://images.test/")
	require.NoError(t, err)
	assert.Equal(t, "https://images.test/one.jpg", d.ImageURL)
	assert.Equal(t, time.Date(2020, time.June, 25, 0, 0, 0, 0, time.UTC), *d.Volumes[1].ReleaseJA)
}

func TestSeries_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.Series(context.Background(), 1)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestSeries_NoSeriesObject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := c.Series(context.Background(), 1)
	require.ErrorIs(t, err, core.ErrMalformedRecord)
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `{"count":1,"totalPages":1,"series":[]}`)
	})
	require.NoError(t, c.Ping(context.Background()))

	down := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	require.ErrorIs(t, down.Ping(context.Background()), core.ErrUpstreamUnavailable)
}

func TestRateLimiter_RespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"count":0,"totalPages":0,"series":[]}`)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, time.Second, 1, newTestLogger())
	require.NoError(t, err)

	// первый запрос забирает единственный токен
	require.NoError(t, c.Ping(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.Error(t, c.Ping(ctx))
}

func TestFlexString(t *testing.T) {
	tests := []struct {
		in   string
		want flexString
	}{
		{`"20240101"`, "20240101"},
		{`20240101`, "20240101"},
		{`0`, ""},
		{`null`, ""},
		{`" 123 "`, "123"},
	}
	for _, tc := range tests {
		var f flexString
		require.NoError(t, f.UnmarshalJSON([]byte(tc.in)), tc.in)
		assert.Equal(t, tc.want, f, tc.in)
	}

	var f flexString
	require.Error(t, f.UnmarshalJSON([]byte(`true`)))
}

func TestFlexInt(t *testing.T) {
	var n flexInt
	require.NoError(t, n.UnmarshalJSON([]byte(`"5800"`)))
	assert.Equal(t, flexInt(5800), n)

	require.NoError(t, n.UnmarshalJSON([]byte(`12`)))
	assert.Equal(t, flexInt(12), n)

	require.Error(t, n.UnmarshalJSON([]byte(`"x"`)))
}
