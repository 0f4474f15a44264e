package appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Murugesh1804/revivewell-final/internal/domain/checkin"
	"github.com/Murugesh1804/revivewell-final/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(authed *echo.Group) {
	authed.GET("/appointments", h.List)
	authed.POST("/appointments", h.Create)
}

func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	items, err := h.svc.ListFor(ctx, userID, auth.UserTypeFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, items)
}

// createInput mirrors the client payload: camelCase ids, lenient date.
type createInput struct {
	PatientID  uuid.UUID        `json:"patientId"`
	ProviderID uuid.UUID        `json:"providerId"`
	Date       checkin.FlexTime `json:"date"`
	Time       string           `json:"time"`
	Type       string           `json:"type"`
	Notes      string           `json:"notes"`
	Status     string           `json:"status"`
}

func (h *Handler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var in createInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	a := &Appointment{
		PatientID:  in.PatientID,
		ProviderID: in.ProviderID,
		Date:       in.Date.Time(),
		Time:       in.Time,
		Type:       in.Type,
		Notes:      in.Notes,
		Status:     in.Status,
	}

	err = h.svc.Create(c.Request().Context(), userID, a)
	switch {
	case errors.Is(err, ErrParticipantNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "patient or provider not found")
	case errors.Is(err, ErrNotParticipant):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":       "Appointment created successfully",
		"appointmentId": a.ID,
	})
}

func currentUserID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}
	return id, nil
}
