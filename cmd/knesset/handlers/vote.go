package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/karopastal/Open-Knesset/cmd/knesset/container"
	"github.com/karopastal/Open-Knesset/common/queue"
	"github.com/karopastal/Open-Knesset/common/repository"
)

// VoteHandler handles vote-related requests
type VoteHandler struct {
	container *container.Container
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(c *container.Container) *VoteHandler {
	return &VoteHandler{container: c}
}

// GetVote retrieves a vote with its aggregate counters
// GET /api/v1/votes/:id
func (h *VoteHandler) GetVote(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	vote, err := h.container.VoteRepo.GetVote(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "vote not found",
		})
	}
	if err != nil {
		h.container.Components.Logger.Error("failed to get vote", "vote_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to get vote",
		})
	}

	return c.JSON(http.StatusOK, vote)
}

// ListVotes lists the most recent votes
// GET /api/v1/votes?limit=50
func (h *VoteHandler) ListVotes(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error": "limit must be an integer between 1 and 500",
			})
		}
		limit = parsed
	}

	votes, err := h.container.VoteRepo.ListRecent(ctx, limit)
	if err != nil {
		h.container.Components.Logger.Error("failed to list votes", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to list votes",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"votes": votes,
		"count": len(votes),
	})
}

// GetVoteActions lists the per-member actions of a vote with their
// deviation flags
// GET /api/v1/votes/:id/actions
func (h *VoteHandler) GetVoteActions(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	actions, err := h.container.VoteRepo.ListActions(ctx, id)
	if err != nil {
		h.container.Components.Logger.Error("failed to list vote actions", "vote_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to list vote actions",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"vote_id": id,
		"actions": actions,
		"count":   len(actions),
	})
}

// ClassifyVote enqueues a classification job for the vote
// POST /api/v1/votes/:id/classify
func (h *VoteHandler) ClassifyVote(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	job := queue.Job{Kind: queue.JobClassifyVote, ID: id}
	if err := h.container.Components.Queue.Publish(ctx, job); err != nil {
		h.container.Components.Logger.Error("failed to enqueue classification", "vote_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to enqueue classification",
		})
	}

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"vote_id": id,
		"status":  "queued",
	})
}
