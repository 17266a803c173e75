package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"reelreviews/errs"
	"reelreviews/tmdb"
)

// MovieService is the slice of the metadata client the proxy routes need.
type MovieService interface {
	MovieInfo(ctx context.Context, movieID string) ([]byte, error)
	Discover(ctx context.Context, p tmdb.DiscoverParams) ([]byte, error)
	Search(ctx context.Context, query string, page int) (tmdb.SearchPage, error)
}

func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	g.GET("/movieInfo", s.handleMovieInfoMissingID)
	g.GET("/movieInfo/:id", s.handleMovieInfo)
	g.GET("/discover", s.handleDiscover)
	g.GET("/search", s.handleSearch)
}

func (s *Server) handleMovieInfoMissingID(c echo.Context) error {
	return errs.Errorf(errs.EINVALID, "movie_id is required")
}

// handleMovieInfo proxies the upstream detail document verbatim, including
// the upstream status code on failure.
func (s *Server) handleMovieInfo(c echo.Context) error {
	body, err := s.MovieService.MovieInfo(c.Request().Context(), c.Param("id"))
	if err != nil {
		return upstreamFailure(c, err)
	}

	return c.JSONBlob(http.StatusOK, body)
}

func (s *Server) handleDiscover(c echo.Context) error {
	body, err := s.MovieService.Discover(c.Request().Context(), tmdb.DiscoverParams{
		WithGenres:     c.QueryParam("with_genres"),
		Year:           c.QueryParam("year"),
		VoteAverageLTE: c.QueryParam("vote_average_lte"),
		Page:           c.QueryParam("page"),
	})
	if err != nil {
		return upstreamFailure(c, err)
	}

	// Discovery pages change slowly; let browsers and the CDN hold them.
	c.Response().Header().Set("Cache-Control", "public, max-age=120, s-maxage=600")
	return c.JSONBlob(http.StatusOK, body)
}

func (s *Server) handleSearch(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return errs.Errorf(errs.EINVALID, "q is required")
	}

	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := s.MovieService.Search(c.Request().Context(), query, page)
	if err != nil {
		return upstreamFailure(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// upstreamFailure passes provider error status and text through; transport
// failures collapse into a plain 500.
func upstreamFailure(c echo.Context, err error) error {
	var upstreamErr *tmdb.UpstreamError
	if errors.As(err, &upstreamErr) {
		return c.JSON(upstreamErr.Status, map[string]string{"error": upstreamErr.Error()})
	}
	return err
}
