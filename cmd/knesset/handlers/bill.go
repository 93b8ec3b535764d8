package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/karopastal/Open-Knesset/cmd/knesset/container"
	"github.com/karopastal/Open-Knesset/common/models"
	"github.com/karopastal/Open-Knesset/common/queue"
	"github.com/karopastal/Open-Knesset/common/repository"
)

// BillHandler handles bill-related requests
type BillHandler struct {
	container *container.Container
}

// NewBillHandler creates a new bill handler
func NewBillHandler(c *container.Container) *BillHandler {
	return &BillHandler{container: c}
}

// GetBill retrieves a bill with its stage and relations
// GET /api/v1/bills/:id
func (h *BillHandler) GetBill(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	bill, err := h.container.BillRepo.GetBill(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "bill not found",
		})
	}
	if err != nil {
		h.container.Components.Logger.Error("failed to get bill", "bill_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to get bill",
		})
	}

	return c.JSON(http.StatusOK, bill)
}

// ListBills lists bills at a given stage
// GET /api/v1/bills?stage=IN_COMMITTEE&limit=50
func (h *BillHandler) ListBills(c echo.Context) error {
	ctx := c.Request().Context()

	stage := models.BillStage(c.QueryParam("stage"))
	if stage == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "stage query parameter is required",
		})
	}

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

	bills, err := h.container.BillRepo.ListByStage(ctx, stage, limit)
	if err != nil {
		h.container.Components.Logger.Error("failed to list bills", "stage", stage, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to list bills",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"bills": bills,
		"stage": stage,
		"count": len(bills),
	})
}

// GetBillActivity retrieves a bill's activity stream
// GET /api/v1/bills/:id/activity
func (h *BillHandler) GetBillActivity(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	entries, err := h.container.ActivityRepo.ListStream(ctx, id)
	if err != nil {
		h.container.Components.Logger.Error("failed to list bill activity", "bill_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to list bill activity",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"bill_id": id,
		"entries": entries,
		"count":   len(entries),
	})
}

// RecomputeStage enqueues a stage recomputation job for the bill
// POST /api/v1/bills/:id/recompute-stage?force=true
func (h *BillHandler) RecomputeStage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	// Forced resets bypass the queue so the caller sees the result
	if c.QueryParam("force") == "true" {
		if err := h.container.StageEngine.Recompute(ctx, id, true); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, map[string]interface{}{
					"error": "bill not found",
				})
			}
			h.container.Components.Logger.Error("failed to recompute stage", "bill_id", id, "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"error": "failed to recompute stage",
			})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"bill_id": id,
			"status":  "recomputed",
		})
	}

	job := queue.Job{Kind: queue.JobRecomputeStage, ID: id}
	if err := h.container.Components.Queue.Publish(ctx, job); err != nil {
		h.container.Components.Logger.Error("failed to enqueue stage recompute", "bill_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to enqueue stage recompute",
		})
	}

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"bill_id": id,
		"status":  "queued",
	})
}

// UpdateVoteRoles reattaches the bill's proposal votes into their pipeline
// roles and recomputes the stage
// POST /api/v1/bills/:id/update-vote-roles
func (h *BillHandler) UpdateVoteRoles(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.container.BillService.UpdateVoteRoles(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"error": "bill not found",
			})
		}
		h.container.Components.Logger.Error("failed to update vote roles", "bill_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to update vote roles",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"bill_id": id,
		"status":  "updated",
	})
}
