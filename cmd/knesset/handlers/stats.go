package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/karopastal/Open-Knesset/cmd/knesset/container"
	"github.com/karopastal/Open-Knesset/cmd/knesset/service"
	"github.com/karopastal/Open-Knesset/common/repository"
)

// StatsHandler serves voting-discipline statistics for members, parties and
// candidate lists
type StatsHandler struct {
	container *container.Container
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(c *container.Container) *StatsHandler {
	return &StatsHandler{container: c}
}

// nullable renders a guarded percentage: nil when the sample was too small
func nullable(value float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &value
}

// GetMemberStats computes a member's voting statistics
// GET /api/v1/members/:id/stats?from=2023-01-01
func (h *StatsHandler) GetMemberStats(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var from *time.Time
	if raw := c.QueryParam("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error": "from must be a date in YYYY-MM-DD format",
			})
		}
		from = &parsed
	}

	d := h.container.Discipline

	votesCount, err := d.MemberVotesCount(ctx, id, from)
	if err != nil {
		return h.statsError(c, "member", id, err)
	}

	discipline, disciplineOK, err := d.MemberDiscipline(ctx, id, from)
	if err != nil {
		return h.statsError(c, "member", id, err)
	}

	coalitionDiscipline, coalitionOK, err := d.MemberCoalitionDiscipline(ctx, id, from)
	if err != nil {
		return h.statsError(c, "member", id, err)
	}

	votesPerMonth, err := d.MemberAverageVotesPerMonth(ctx, id)
	if err != nil {
		return h.statsError(c, "member", id, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"member_id":            id,
		"votes_count":          votesCount,
		"discipline":           nullable(discipline, disciplineOK),
		"coalition_discipline": nullable(coalitionDiscipline, coalitionOK),
		"votes_per_month":      votesPerMonth,
	})
}

// GetPartyStats computes a party's voting statistics over the current
// Knesset term
// GET /api/v1/parties/:id/stats
func (h *StatsHandler) GetPartyStats(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	d := h.container.Discipline

	votesCount, err := d.PartyVotesCount(ctx, id)
	if err != nil {
		return h.statsError(c, "party", id, err)
	}

	discipline, disciplineOK, err := d.PartyDiscipline(ctx, id)
	if err != nil {
		return h.statsError(c, "party", id, err)
	}

	coalitionDiscipline, coalitionOK, err := d.PartyCoalitionDiscipline(ctx, id)
	if err != nil {
		return h.statsError(c, "party", id, err)
	}

	votesPerSeat, err := d.PartyVotesPerSeat(ctx, id)
	if err != nil && !errors.Is(err, service.ErrZeroSeats) {
		return h.statsError(c, "party", id, err)
	}

	resp := map[string]interface{}{
		"party_id":             id,
		"votes_count":          votesCount,
		"discipline":           nullable(discipline, disciplineOK),
		"coalition_discipline": nullable(coalitionDiscipline, coalitionOK),
	}
	if err == nil {
		resp["votes_per_seat"] = votesPerSeat
	}

	return c.JSON(http.StatusOK, resp)
}

// GetListStats computes statistics for an ad-hoc candidate list
// POST /api/v1/lists/stats {"member_ids": [1, 2, 3]}
func (h *StatsHandler) GetListStats(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		MemberIDs []int64 `json:"member_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}
	if len(req.MemberIDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "member_ids is required and cannot be empty",
		})
	}

	d := h.container.Discipline

	votesCount, err := d.ListVotesCount(ctx, req.MemberIDs)
	if err != nil {
		return h.statsError(c, "list", 0, err)
	}

	discipline, disciplineOK, err := d.ListDiscipline(ctx, req.MemberIDs)
	if err != nil {
		return h.statsError(c, "list", 0, err)
	}

	votesPerSeat, err := d.ListVotesPerSeat(ctx, req.MemberIDs)
	if err != nil && !errors.Is(err, service.ErrZeroSeats) {
		return h.statsError(c, "list", 0, err)
	}

	resp := map[string]interface{}{
		"member_ids":  req.MemberIDs,
		"votes_count": votesCount,
		"discipline":  nullable(discipline, disciplineOK),
	}
	if err == nil {
		resp["votes_per_seat"] = votesPerSeat
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *StatsHandler) statsError(c echo.Context, kind string, id int64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"error": kind + " not found",
		})
	}
	h.container.Components.Logger.Error("failed to compute statistics", "kind", kind, "id", id, "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": "failed to compute statistics",
	})
}
