package gateway

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eleven-am/align-backend/internal/auth"
	"github.com/eleven-am/align-backend/internal/coach"
	"github.com/eleven-am/align-backend/internal/dto"
	"github.com/eleven-am/align-backend/internal/shared"
)

type Handler struct {
	manager *coach.Manager
	auth    *auth.Service
	tokens  *RoomTokenService
	limiter *connectLimiter
	logger  *slog.Logger
}

type HandlerConfig struct {
	Manager    *coach.Manager
	Auth       *auth.Service
	RoomTokens *RoomTokenService
	RateLimit  ConnectLimiterConfig
	Logger     *slog.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		manager: cfg.Manager,
		auth:    cfg.Auth,
		tokens:  cfg.RoomTokens,
		limiter: newConnectLimiter(cfg.RateLimit),
		logger:  log.With("component", "gateway"),
	}
}

// RegisterRoutes wires the coach endpoints. The connect route authenticates
// itself from the token query parameter because browser WebSocket clients
// cannot set an Authorization header; only the token route takes the
// bearer middleware.
func (h *Handler) RegisterRoutes(g *echo.Group, authMW echo.MiddlewareFunc) {
	g.GET("/connect", h.Connect)
	g.POST("/token", h.RoomToken, authMW)
}

// Connect godoc
// @Summary      Open a coaching session
// @Description  Upgrades to a WebSocket that carries landmark or image frames in and evaluation, overlay, and speech events out. Browsers cannot set headers on websocket dials, so the session token travels in the token query parameter.
// @Tags         coach
// @Param        token  query  string  true  "Session JWT"
// @Success      101  "Switching Protocols"
// @Failure      401  {object}  shared.APIError
// @Failure      429  {object}  shared.APIError
// @Router       /coach/connect [get]
func (h *Handler) Connect(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return shared.Unauthorized("missing_token", "token query parameter required")
	}

	claims, err := h.auth.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return shared.Unauthorized("token_expired", "session token has expired")
		}
		return shared.Unauthorized("invalid_token", "invalid or malformed token")
	}

	if !h.limiter.Allow(c.RealIP()) {
		return shared.TooManyRequests("rate_limited", "too many connection attempts")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return err
	}

	conn := NewWSConnection(ws, h.logger.With("user_id", claims.UserID))
	sess := h.manager.StartSession(conn, claims.UserID)

	go conn.writePump()
	conn.readPump()

	h.manager.RemoveSession(sess.SessionID())
	h.logger.Info("coach client disconnected", "session_id", sess.SessionID(), "user_id", claims.UserID)
	return nil
}

// RoomToken godoc
// @Summary      Mint a LiveKit room token
// @Description  Issues a publish-only LiveKit access token so the client can stream its camera track to a room the detector sidecar consumes.
// @Tags         coach
// @Produce      json
// @Success      200  {object}  dto.LiveKitTokenResponse
// @Failure      401  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Failure      503  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /coach/token [post]
func (h *Handler) RoomToken(c echo.Context) error {
	userID, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	if !h.tokens.Configured() {
		return shared.ServiceUnavailable("livekit_unconfigured", "video rooms are not configured")
	}

	token, room, err := h.tokens.MintJoinToken(userID)
	if err != nil {
		h.logger.Error("failed to mint room token", "error", err, "user_id", userID)
		return shared.InternalError("token_failed", "failed to generate room token")
	}

	return c.JSON(http.StatusOK, dto.LiveKitTokenResponse{
		Token:    token,
		URL:      h.tokens.URL(),
		Room:     room,
		Identity: userID,
	})
}
