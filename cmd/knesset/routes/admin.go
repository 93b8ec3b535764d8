package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/karopastal/Open-Knesset/cmd/knesset/container"
	"github.com/karopastal/Open-Knesset/cmd/knesset/handlers"
)

// RegisterAdminRoutes registers the curation routes
func RegisterAdminRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewAdminHandler(c)

	admin := e.Group("/api/v1/admin")
	{
		admin.POST("/bills/:id/merge", h.MergeBills) // POST /api/v1/admin/bills/{bill_id}/merge
		admin.POST("/laws/:id/merge", h.MergeLaws)   // POST /api/v1/admin/laws/{law_id}/merge
	}
}
