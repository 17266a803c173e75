package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterEnvRoutes(g *echo.Group) {
	g.GET("/env", s.handleEnv)
}

// handleEnv serves the public identity-provider values the browser needs to
// build its own client. Secrets never go through here.
func (s *Server) handleEnv(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.JSON(http.StatusOK, map[string]string{
		"SUPABASE_URL":      s.SupabaseURL,
		"SUPABASE_ANON_KEY": s.SupabaseAnonKey,
	})
}
