package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/karopastal/Open-Knesset/cmd/knesset/container"
	"github.com/karopastal/Open-Knesset/common/repository"
)

// AdminHandler handles curation operations: merging duplicate bills and laws
type AdminHandler struct {
	container *container.Container
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(c *container.Container) *AdminHandler {
	return &AdminHandler{container: c}
}

// MergeBills folds a duplicate bill into a surviving one
// POST /api/v1/admin/bills/:id/merge {"source_id": 42}
func (h *AdminHandler) MergeBills(c echo.Context) error {
	ctx := c.Request().Context()

	targetID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		SourceID int64 `json:"source_id"`
	}
	if err := c.Bind(&req); err != nil || req.SourceID < 1 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "source_id is required and must be a positive integer",
		})
	}

	if err := h.container.Merger.MergeBills(ctx, targetID, req.SourceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"error": "bill not found",
			})
		}
		h.container.Components.Logger.Error("failed to merge bills",
			"target_id", targetID, "source_id", req.SourceID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to merge bills",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"target_id": targetID,
		"source_id": req.SourceID,
		"status":    "merged",
	})
}

// MergeLaws folds a duplicate law into a surviving one
// POST /api/v1/admin/laws/:id/merge {"source_id": 42}
func (h *AdminHandler) MergeLaws(c echo.Context) error {
	ctx := c.Request().Context()

	targetID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		SourceID int64 `json:"source_id"`
	}
	if err := c.Bind(&req); err != nil || req.SourceID < 1 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "source_id is required and must be a positive integer",
		})
	}

	if err := h.container.Merger.MergeLaws(ctx, targetID, req.SourceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"error": "law not found",
			})
		}
		h.container.Components.Logger.Error("failed to merge laws",
			"target_id", targetID, "source_id", req.SourceID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to merge laws",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"target_id": targetID,
		"source_id": req.SourceID,
		"status":    "merged",
	})
}
