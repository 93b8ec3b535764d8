package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/karopastal/Open-Knesset/cmd/knesset/container"
	"github.com/karopastal/Open-Knesset/cmd/knesset/handlers"
)

// RegisterStatsRoutes registers the statistics routes
func RegisterStatsRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewStatsHandler(c)

	e.GET("/api/v1/members/:id/stats", h.GetMemberStats) // GET /api/v1/members/{member_id}/stats
	e.GET("/api/v1/parties/:id/stats", h.GetPartyStats)  // GET /api/v1/parties/{party_id}/stats
	e.POST("/api/v1/lists/stats", h.GetListStats)        // POST /api/v1/lists/stats
}
