package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/dwicandra/duit/duit-backend/internal/middleware"
	"github.com/dwicandra/duit/duit-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// StatsHandler handles statistics and dashboard HTTP requests
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *StatsHandler) GetDashboard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	dashboard, err := h.statsService.Dashboard(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build dashboard")
		return NewInternalError(c, "Failed to build dashboard")
	}

	return c.JSON(http.StatusOK, dashboard)
}

// GetStatistics handles GET /api/v1/statistics
func (h *StatsHandler) GetStatistics(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	stats, err := h.statsService.Statistics(userID, start, end)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to compute statistics")
		return NewInternalError(c, "Failed to compute statistics")
	}

	return c.JSON(http.StatusOK, stats)
}

// GetCategoryStatistics handles GET /api/v1/statistics/categories
func (h *StatsHandler) GetCategoryStatistics(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	stats, err := h.statsService.CategoryStatistics(userID, start, end)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to compute category statistics")
		return NewInternalError(c, "Failed to compute category statistics")
	}

	return c.JSON(http.StatusOK, map[string]any{"data": stats})
}

// parseDateRange reads the optional startDate/endDate query params.
func parseDateRange(c echo.Context) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if param := c.QueryParam("startDate"); param != "" {
		parsed, err := time.Parse(dateLayout, param)
		if err != nil {
			return nil, nil, errors.New("Invalid startDate filter")
		}
		start = &parsed
	}
	if param := c.QueryParam("endDate"); param != "" {
		parsed, err := time.Parse(dateLayout, param)
		if err != nil {
			return nil, nil, errors.New("Invalid endDate filter")
		}
		end = &parsed
	}
	return start, end, nil
}
