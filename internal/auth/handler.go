package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/eleven-am/align-backend/internal/dto"
	"github.com/eleven-am/align-backend/internal/shared"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service *Service, validate *validator.Validate, logger *slog.Logger) *Handler {
	if validate == nil {
		validate = validator.New()
	}
	return &Handler{
		service:  service,
		validate: validate,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/session", h.CreateSession)
}

// @Summary      Create an anonymous session token
// @Description  Mints a short-lived JWT for connecting to the coaching gateway; no account required
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  dto.SessionTokenRequest  false  "Optional display name"
// @Success      200  {object}  dto.SessionTokenResponse
// @Failure      400  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /auth/session [post]
func (h *Handler) CreateSession(c echo.Context) error {
	var req dto.SessionTokenRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_body", "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return shared.BadRequest("invalid_name", "display name is too long")
	}

	token, claims, err := h.service.Mint(req.Name)
	if err != nil {
		h.logger.Error("failed to mint session token", "error", err)
		return shared.InternalError("token_failed", "failed to create session token")
	}

	return c.JSON(http.StatusOK, dto.SessionTokenResponse{
		Token:     token,
		UserID:    claims.UserID,
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
