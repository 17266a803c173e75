package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelreviews/tmdb"
)

func newUpstream(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)
	return upstream
}

func TestClient_ResolveMovie(t *testing.T) {
	t.Run("should resolve by id through the detail endpoint", func(t *testing.T) {
		upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/movie/550", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
			assert.Equal(t, "en-US", r.URL.Query().Get("language"))
			_, _ = w.Write([]byte(`{"id": 550, "title": "Fight Club", "poster_path": "/poster.jpg"}`))
		})
		client := tmdb.NewClient(upstream.URL, "test-key")

		ref, err := client.ResolveMovie(context.Background(), 550, "")

		require.NoError(t, err)
		assert.Equal(t, 550, ref.MovieID)
		assert.Equal(t, "Fight Club", ref.MovieTitle)
		require.NotNil(t, ref.MoviePosterPath)
		assert.Equal(t, "/poster.jpg", *ref.MoviePosterPath)
	})

	t.Run("should fall back from title to name to Untitled", func(t *testing.T) {
		tests := []struct {
			body     string
			expected string
		}{
			{`{"id": 1, "name": "The Series"}`, "The Series"},
			{`{"id": 1}`, "Untitled"},
		}
		for _, tt := range tests {
			body := tt.body
			upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			client := tmdb.NewClient(upstream.URL, "test-key")

			ref, err := client.ResolveMovie(context.Background(), 1, "")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, ref.MovieTitle)
		}
	})

	t.Run("should take the first search result for a query", func(t *testing.T) {
		upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search/movie", r.URL.Path)
			assert.Equal(t, "Fight Club", r.URL.Query().Get("query"))
			assert.Equal(t, "false", r.URL.Query().Get("include_adult"))
			assert.Equal(t, "1", r.URL.Query().Get("page"))
			_, _ = w.Write([]byte(`{"results": [
				{"id": 550, "title": "Fight Club", "poster_path": "/a.jpg"},
				{"id": 551, "title": "Fight Club 2"}
			]}`))
		})
		client := tmdb.NewClient(upstream.URL, "test-key")

		ref, err := client.ResolveMovie(context.Background(), 0, "Fight Club")

		require.NoError(t, err)
		assert.Equal(t, 550, ref.MovieID)
		assert.Equal(t, "Fight Club", ref.MovieTitle)
	})

	t.Run("should fail when neither id nor query is given", func(t *testing.T) {
		client := tmdb.NewClient("https://unused.example.com", "test-key")

		_, err := client.ResolveMovie(context.Background(), 0, "")

		assert.Equal(t, tmdb.ErrMovieRefRequired, err)
	})

	t.Run("should fail when the search has no results", func(t *testing.T) {
		upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results": []}`))
		})
		client := tmdb.NewClient(upstream.URL, "test-key")

		_, err := client.ResolveMovie(context.Background(), 0, "no such movie")

		assert.Equal(t, tmdb.ErrNoMatch, err)
	})

	t.Run("should fail when the api key is missing", func(t *testing.T) {
		client := tmdb.NewClient("https://unused.example.com", "")

		_, err := client.ResolveMovie(context.Background(), 550, "")

		assert.Equal(t, tmdb.ErrKeyMissing, err)
	})

	t.Run("should carry the upstream body on a non-2xx detail answer", func(t *testing.T) {
		upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status_message": "The resource you requested could not be found."}`))
		})
		client := tmdb.NewClient(upstream.URL, "test-key")

		_, err := client.ResolveMovie(context.Background(), 999999999, "")

		var upstreamErr *tmdb.UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		assert.Equal(t, http.StatusNotFound, upstreamErr.Status)
		assert.Contains(t, err.Error(), "could not be found")
	})

	t.Run("should fall back to a status message when the body is empty", func(t *testing.T) {
		upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		client := tmdb.NewClient(upstream.URL, "test-key")

		_, err := client.ResolveMovie(context.Background(), 550, "")

		assert.EqualError(t, err, "TMDB lookup failed (503)")
	})
}

func TestClient_MovieInfo(t *testing.T) {
	t.Run("should return the raw detail document", func(t *testing.T) {
		upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/movie/550", r.URL.Path)
			_, _ = w.Write([]byte(`{"id": 550, "title": "Fight Club", "runtime": 139}`))
		})
		client := tmdb.NewClient(upstream.URL, "test-key")

		body, err := client.MovieInfo(context.Background(), "550")

		require.NoError(t, err)
		assert.JSONEq(t, `{"id": 550, "title": "Fight Club", "runtime": 139}`, string(body))
	})

	t.Run("should return an upstream error with passthrough status", func(t *testing.T) {
		upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		client := tmdb.NewClient(upstream.URL, "test-key")

		_, err := client.MovieInfo(context.Background(), "0")

		var upstreamErr *tmdb.UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		assert.Equal(t, http.StatusNotFound, upstreamErr.Status)
		assert.EqualError(t, err, "TMDB error")
	})
}

func TestClient_Discover(t *testing.T) {
	t.Run("should forward filters and default the page", func(t *testing.T) {
		upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/discover/movie", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "popularity.desc", q.Get("sort_by"))
			assert.Equal(t, "1", q.Get("page"))
			assert.Equal(t, "18,53", q.Get("with_genres"))
			assert.Equal(t, "1999", q.Get("primary_release_year"))
			assert.Equal(t, "7.5", q.Get("vote_average.lte"))
			_, _ = w.Write([]byte(`{"page": 1, "results": []}`))
		})
		client := tmdb.NewClient(upstream.URL, "test-key")

		body, err := client.Discover(context.Background(), tmdb.DiscoverParams{
			WithGenres:     "18,53",
			Year:           "1999",
			VoteAverageLTE: "7.5",
		})

		require.NoError(t, err)
		assert.JSONEq(t, `{"page": 1, "results": []}`, string(body))
	})

	t.Run("should omit absent filters", func(t *testing.T) {
		upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.False(t, q.Has("with_genres"))
			assert.False(t, q.Has("primary_release_year"))
			assert.False(t, q.Has("vote_average.lte"))
			assert.Equal(t, "3", q.Get("page"))
			_, _ = w.Write([]byte(`{"page": 3, "results": []}`))
		})
		client := tmdb.NewClient(upstream.URL, "test-key")

		_, err := client.Discover(context.Background(), tmdb.DiscoverParams{Page: "3"})

		require.NoError(t, err)
	})
}

func TestClient_Search(t *testing.T) {
	t.Run("should project results down to the rendered field set", func(t *testing.T) {
		upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Fight Club", r.URL.Query().Get("query"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			_, _ = w.Write([]byte(`{
				"page": 2,
				"total_pages": 3,
				"total_results": 42,
				"results": [{
					"id": 550,
					"title": "Fight Club",
					"release_date": "1999-10-15",
					"overview": "An insomniac office worker...",
					"poster_path": "/poster.jpg",
					"vote_average": 8.4,
					"popularity": 61.4,
					"genre_ids": [18, 53]
				}]
			}`))
		})
		client := tmdb.NewClient(upstream.URL, "test-key")

		page, err := client.Search(context.Background(), "Fight Club", 2)

		require.NoError(t, err)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 42, page.TotalResults)
		require.Len(t, page.Results, 1)
		assert.Equal(t, 550, page.Results[0].ID)
		assert.Equal(t, "1999-10-15", page.Results[0].ReleaseDate)
	})

	t.Run("should default page to 1", func(t *testing.T) {
		upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("page"))
			_, _ = w.Write([]byte(`{"page": 1, "results": []}`))
		})
		client := tmdb.NewClient(upstream.URL, "test-key")

		page, err := client.Search(context.Background(), "anything", 0)

		require.NoError(t, err)
		assert.NotNil(t, page.Results)
	})
}
