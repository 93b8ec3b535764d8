package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/karopastal/Open-Knesset/cmd/knesset/container"
	"github.com/karopastal/Open-Knesset/cmd/knesset/handlers"
)

// RegisterVoteRoutes registers all vote-related routes
func RegisterVoteRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewVoteHandler(c)

	votes := e.Group("/api/v1/votes")
	{
		votes.GET("", h.ListVotes)                // GET /api/v1/votes?limit=50
		votes.GET("/:id", h.GetVote)              // GET /api/v1/votes/{vote_id}
		votes.GET("/:id/actions", h.GetVoteActions) // GET /api/v1/votes/{vote_id}/actions
		votes.POST("/:id/classify", h.ClassifyVote) // POST /api/v1/votes/{vote_id}/classify
	}
}
