// Package tmdb is the client for the external movie metadata provider. It
// resolves movie references for the review pipeline and backs the thin proxy
// endpoints.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"reelreviews/errs"
	"reelreviews/review"
)

var (
	ErrMovieRefRequired = errs.Errorf(errs.EINVALID, "Provide a movie id or search query.")
	ErrNoMatch          = errs.Errorf(errs.ENOTFOUND, "Could not find a matching movie on TMDB.")
	ErrKeyMissing       = errors.New("TMDB_API_KEY is not configured")
)

// UpstreamError is a non-2xx answer from the provider. Body holds the raw
// response text, fallback fills in when the body is empty.
type UpstreamError struct {
	Status   int
	Body     string
	fallback string
}

func (e *UpstreamError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return e.fallback
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type movieDetails struct {
	ID         int     `json:"id"`
	Title      string  `json:"title"`
	Name       string  `json:"name"`
	PosterPath *string `json:"poster_path"`
}

func (d movieDetails) toRef() review.MovieRef {
	title := d.Title
	if title == "" {
		title = d.Name
	}
	if title == "" {
		title = "Untitled"
	}
	return review.MovieRef{
		MovieID:         d.ID,
		MovieTitle:      title,
		MoviePosterPath: d.PosterPath,
	}
}

// ResolveMovie implements review.MovieResolver. A positive movieID is looked
// up directly; otherwise query must be non-empty and the first search result
// wins, in the provider's own ordering.
func (c *Client) ResolveMovie(ctx context.Context, movieID int, query string) (review.MovieRef, error) {
	if c.apiKey == "" {
		return review.MovieRef{}, ErrKeyMissing
	}

	if movieID > 0 {
		body, err := c.get(ctx, "/movie/"+strconv.Itoa(movieID), nil, "TMDB lookup failed (%d)")
		if err != nil {
			return review.MovieRef{}, err
		}
		var details movieDetails
		if err := json.Unmarshal(body, &details); err != nil {
			return review.MovieRef{}, err
		}
		return details.toRef(), nil
	}

	if query == "" {
		return review.MovieRef{}, ErrMovieRefRequired
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	body, err := c.get(ctx, "/search/movie", params, "TMDB search failed (%d)")
	if err != nil {
		return review.MovieRef{}, err
	}

	var page struct {
		Results []movieDetails `json:"results"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return review.MovieRef{}, err
	}
	if len(page.Results) == 0 {
		return review.MovieRef{}, ErrNoMatch
	}
	return page.Results[0].toRef(), nil
}

// MovieInfo fetches the full detail document for passthrough serving.
func (c *Client) MovieInfo(ctx context.Context, movieID string) ([]byte, error) {
	return c.get(ctx, "/movie/"+url.PathEscape(movieID), nil, "TMDB error")
}

type DiscoverParams struct {
	WithGenres     string
	Year           string
	VoteAverageLTE string
	Page           string
}

// Discover fetches a popularity-sorted discovery page for passthrough serving.
func (c *Client) Discover(ctx context.Context, p DiscoverParams) ([]byte, error) {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	page := p.Page
	if page == "" {
		page = "1"
	}
	params.Set("page", page)
	if p.WithGenres != "" {
		params.Set("with_genres", p.WithGenres)
	}
	if p.Year != "" {
		params.Set("primary_release_year", p.Year)
	}
	if p.VoteAverageLTE != "" {
		params.Set("vote_average.lte", p.VoteAverageLTE)
	}
	return c.get(ctx, "/discover/movie", params, "TMDB error")
}

type SearchResult struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	Overview    string   `json:"overview"`
	PosterPath  *string  `json:"poster_path"`
	VoteAverage *float64 `json:"vote_average"`
}

type SearchPage struct {
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Results      []SearchResult `json:"results"`
}

// Search runs a title search and projects each result down to the fields the
// browser actually renders.
func (c *Client) Search(ctx context.Context, query string, page int) (SearchPage, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	body, err := c.get(ctx, "/search/movie", params, "TMDB search error")
	if err != nil {
		return SearchPage{}, err
	}

	var result SearchPage
	if err := json.Unmarshal(body, &result); err != nil {
		return SearchPage{}, err
	}
	if result.Results == nil {
		result.Results = []SearchResult{}
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, fallback string) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", "en-US")
	params.Set("include_adult", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if strings.Contains(fallback, "%d") {
			fallback = fmt.Sprintf(fallback, resp.StatusCode)
		}
		return nil, &UpstreamError{
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(body)),
			fallback: fallback,
		}
	}

	return body, nil
}
