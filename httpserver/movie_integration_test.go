// nolint: funlen
package httpserver_test

import (
	"fmt"
	"movieapp/httpserver"
	"movieapp/movie"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeepingTrackOfMovies_Memory(t *testing.T) {
	keepingTrackOfMovies(t, MustCreateMemoryServer(t))
}

func TestKeepingTrackOfMovies_Postgres(t *testing.T) {
	keepingTrackOfMovies(t, MustCreatePostgresServer(t))
}

func keepingTrackOfMovies(t *testing.T, server *httpserver.Server) {
	title := "The Man Who Knew Too Much"
	first := mustAddMovie(t, server, fmt.Sprintf(`{"title":%q,"year":1934,"duration":75}`, title))
	second := mustAddMovie(t, server, fmt.Sprintf(`{"title":%q,"year":1956}`, title))
	mustAddMovie(t, server, `{"title":"The Man Who Knew Too Little","year":1997}`)

	t.Run("created movies round trip", func(t *testing.T) {
		rec := serve(server, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/movies/%d", first.ID), nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var got movie.Detail
		decodeAPIResult(t, decodeAPIResponse(t, rec).Result, &got)
		assert.Equal(t, first, got)
		assert.Nil(t, second.Duration)
	})

	t.Run("lists every movie", func(t *testing.T) {
		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/movies", nil))

		assert.Len(t, decodeSummaries(t, rec), 3)
	})

	t.Run("finds both movies sharing a title", func(t *testing.T) {
		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/movies/byTitle?t=The+Man+Who+Knew+Too+Much", nil))

		summaries := decodeSummaries(t, rec)
		years := make([]int32, 0, len(summaries))
		for _, s := range summaries {
			years = append(years, s.Year)
		}
		assert.ElementsMatch(t, []int32{1934, 1956}, years)
	})

	t.Run("narrows a title by year", func(t *testing.T) {
		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/movies/byTitleYear?t=The+Man+Who+Knew+Too+Much&y=1956", nil))

		summaries := decodeSummaries(t, rec)
		require.Len(t, summaries, 1)
		assert.Equal(t, second.ID, summaries[0].ID)
	})

	t.Run("an unbounded year range is empty", func(t *testing.T) {
		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/movies/byYearRange", nil))

		assert.Empty(t, decodeSummaries(t, rec))
	})

	t.Run("a bounded year range is inclusive", func(t *testing.T) {
		rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/movies/byYearRange?mi=1934&ma=1956", nil))

		assert.Len(t, decodeSummaries(t, rec), 2)
	})

	t.Run("rejects a movie without a year", func(t *testing.T) {
		rec := serve(server, newJSONRequest(http.MethodPost, "/api/movies", `{"title":"Rope"}`))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("updates then deletes", func(t *testing.T) {
		body := fmt.Sprintf(`{"id":%d,"title":%q,"year":1956,"duration":120}`, second.ID, title)
		rec := serve(server, newJSONRequest(http.MethodPut, "/api/movies", body))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = serve(server, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/movies/%d", second.ID), nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var removed movie.Detail
		decodeAPIResult(t, decodeAPIResponse(t, rec).Result, &removed)
		assert.Equal(t, int32(120), *removed.Duration)

		rec = serve(server, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/movies/%d", second.ID), nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("only a null title is missing", func(t *testing.T) {
		rec := serve(server, newJSONRequest(http.MethodPost, "/api/movies", `{"title":null,"year":2000}`))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		blank := mustAddMovie(t, server, `{"title":"  ","year":2000}`)
		empty := mustAddMovie(t, server, `{"title":"","year":2000}`)

		require.NotNil(t, blank.Title)
		assert.Equal(t, "  ", *blank.Title)
		require.NotNil(t, empty.Title)
		assert.Equal(t, "", *empty.Title)
	})
}

func serve(server *httpserver.Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func mustAddMovie(t *testing.T, server *httpserver.Server, body string) movie.Detail {
	t.Helper()
	rec := serve(server, newJSONRequest(http.MethodPost, "/api/movies", body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created movie.Detail
	decodeAPIResult(t, decodeAPIResponse(t, rec).Result, &created)
	require.NotZero(t, created.ID)
	return created
}

func decodeSummaries(t *testing.T, rec *httptest.ResponseRecorder) []movie.Summary {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result struct {
		Data []movie.Summary `json:"data"`
	}
	decodeAPIResult(t, decodeAPIResponse(t, rec).Result, &result)
	return result.Data
}
