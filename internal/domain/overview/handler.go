package overview

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Murugesh1804/revivewell-final/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(authed *echo.Group) {
	authed.GET("/dashboard-stats", h.Stats)
}

func (h *Handler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	switch auth.UserTypeFromContext(ctx) {
	case "patient":
		stats, err := h.svc.ForPatient(ctx, userID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, stats)

	case "counselor", "doctor":
		stats, err := h.svc.ForClinician(ctx, userID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, stats)

	default:
		return echo.NewHTTPError(http.StatusForbidden, "unauthorized access")
	}
}
