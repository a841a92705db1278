package session

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eleven-am/align-backend/internal/auth"
	"github.com/eleven-am/align-backend/internal/dto"
	"github.com/eleven-am/align-backend/internal/shared"
)

type Handler struct {
	store  *Store
	logger *slog.Logger
}

func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/live", h.GetLiveSessions)
	g.GET("/hourly", h.GetHourlyMetrics)
}

// @Summary      List live coaching sessions
// @Description  Returns a snapshot of every session currently streaming frames
// @Tags         metrics
// @Produce      json
// @Success      200  {object}  dto.LiveSessionListResponse
// @Failure      401  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /metrics/live [get]
func (h *Handler) GetLiveSessions(c echo.Context) error {
	if _, err := auth.RequireAuth(c); err != nil {
		return err
	}

	statuses, err := h.store.ListLiveStatuses(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to list live sessions", "error", err)
		return shared.InternalError("list_failed", "failed to list live sessions")
	}

	response := dto.LiveSessionListResponse{
		Sessions: make([]dto.LiveSessionResponse, len(statuses)),
		Count:    len(statuses),
	}
	for i, status := range statuses {
		response.Sessions[i] = liveToResponse(status)
	}

	return c.JSON(http.StatusOK, response)
}

// @Summary      Hourly usage metrics
// @Description  Returns per-hour frame and utterance counters for the requested window
// @Tags         metrics
// @Produce      json
// @Param        hours  query  int  false  "Window size in hours (1-168)"  default(24)
// @Success      200  {object}  dto.MetricsListResponse
// @Failure      401  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /metrics/hourly [get]
func (h *Handler) GetHourlyMetrics(c echo.Context) error {
	if _, err := auth.RequireAuth(c); err != nil {
		return err
	}

	hours := 24
	if hoursStr := c.QueryParam("hours"); hoursStr != "" {
		if hr, err := strconv.Atoi(hoursStr); err == nil && hr > 0 && hr <= 168 {
			hours = hr
		}
	}

	metrics, err := h.store.GetMetrics(c.Request().Context(), hours)
	if err != nil {
		h.logger.Error("failed to get metrics", "error", err)
		return shared.InternalError("get_metrics_failed", "failed to get metrics")
	}

	response := dto.MetricsListResponse{
		Hours:   hours,
		Metrics: make([]dto.MetricsResponse, len(metrics)),
	}
	for i, m := range metrics {
		response.Metrics[i] = dto.MetricsResponse{
			Date:            m.Date,
			Hour:            m.Hour,
			SessionsStarted: m.SessionsStarted,
			FramesEvaluated: m.FramesEvaluated,
			GoodFrames:      m.GoodFrames,
			Utterances:      m.Utterances,
		}
	}

	return c.JSON(http.StatusOK, response)
}

func liveToResponse(status *LiveStatus) dto.LiveSessionResponse {
	return dto.LiveSessionResponse{
		SessionID:       status.SessionID,
		UserID:          status.UserID,
		StartedAt:       status.StartedAt.UTC().Format(time.RFC3339),
		LastFrameAt:     status.LastFrameAt.UTC().Format(time.RFC3339),
		FramesEvaluated: status.FramesEvaluated,
		GoodFrames:      status.GoodFrames,
		CurrentKind:     status.CurrentKind,
		LastFeedback:    status.LastFeedback,
	}
}
