package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"reelreviews/review"
)

// requestBodyLimit caps review submissions; anything larger is rejected
// before JSON parsing.
const requestBodyLimit = "1M"

func (s *Server) RegisterReviewRoutes(g *echo.Group) {
	g.GET("/reviews", s.handleListReviews)
	g.POST("/reviews", s.handleCreateReview, middleware.BodyLimit(requestBodyLimit))
}

func (s *Server) handleListReviews(c echo.Context) error {
	result, err := s.ReviewService.ListReviews(
		c.Request().Context(),
		c.QueryParam("movieId"),
		c.QueryParam("userId"),
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleCreateReview(c echo.Context) error {
	var in review.SubmitInput
	if err := c.Bind(&in); err != nil {
		// Authentication still has to run, so the decode failure rides along
		// instead of answering here.
		in = review.SubmitInput{DecodeErr: err}
	}

	created, err := s.ReviewService.SubmitReview(c.Request().Context(), bearerToken(c), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]review.Review{
		"review": created,
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>", empty
// when the header is absent or shaped differently.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return header[7:]
	}
	return ""
}
