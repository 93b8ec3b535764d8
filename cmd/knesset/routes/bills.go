package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/karopastal/Open-Knesset/cmd/knesset/container"
	"github.com/karopastal/Open-Knesset/cmd/knesset/handlers"
)

// RegisterBillRoutes registers all bill-related routes
func RegisterBillRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewBillHandler(c)

	bills := e.Group("/api/v1/bills")
	{
		bills.GET("", h.ListBills)                              // GET /api/v1/bills?stage=IN_COMMITTEE
		bills.GET("/:id", h.GetBill)                            // GET /api/v1/bills/{bill_id}
		bills.GET("/:id/activity", h.GetBillActivity)           // GET /api/v1/bills/{bill_id}/activity
		bills.POST("/:id/recompute-stage", h.RecomputeStage)    // POST /api/v1/bills/{bill_id}/recompute-stage
		bills.POST("/:id/update-vote-roles", h.UpdateVoteRoles) // POST /api/v1/bills/{bill_id}/update-vote-roles
	}
}
