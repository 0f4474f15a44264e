package checkin

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Murugesh1804/revivewell-final/internal/platform/auth"
	"github.com/Murugesh1804/revivewell-final/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(authed *echo.Group) {
	authed.POST("/daily-checkin", h.Submit, auth.RequireType("patient"))
	authed.GET("/daily-checkins", h.List)
	authed.GET("/user-checkins", h.ListAcrossPatients, auth.RequireType("counselor", "doctor"))
}

// submitInput tolerates the loose encodings the mobile clients send:
// quoted numbers and 0/1 booleans.
type submitInput struct {
	Mood                 FlexInt  `json:"mood"`
	Cravings             FlexInt  `json:"cravings"`
	Challenges           string   `json:"challenges"`
	Goals                string   `json:"goals"`
	NeedCounselor        FlexBool `json:"needCounselor"`
	NeedSupportGroup     FlexBool `json:"needSupportGroup"`
	NeedEmergencyContact FlexBool `json:"needEmergencyContact"`
}

func (h *Handler) Submit(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var in submitInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec := &CheckIn{
		Mood:                 in.Mood.Int(),
		Cravings:             in.Cravings.Int(),
		NeedCounselor:        in.NeedCounselor.Bool(),
		NeedSupportGroup:     in.NeedSupportGroup.Bool(),
		NeedEmergencyContact: in.NeedEmergencyContact.Bool(),
	}
	if in.Challenges != "" {
		rec.Challenges = &in.Challenges
	}
	if in.Goals != "" {
		rec.Goals = &in.Goals
	}

	if err := h.svc.Submit(c.Request().Context(), userID, rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":   "Check-in submitted successfully",
		"checkinId": rec.ID,
	})
}

type listResponse struct {
	Checkins []*CheckIn `json:"checkins"`
	Insights string     `json:"llm_insights"`
}

// List serves both roles: patients see their own history, clinicians see
// the cross-patient review feed.
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()

	switch auth.UserTypeFromContext(ctx) {
	case "patient":
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		checkins, insight, err := h.svc.ListForPatient(ctx, userID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, listResponse{Checkins: emptyIfNil(checkins), Insights: insight})

	case "counselor", "doctor":
		checkins, insight, err := h.svc.ListForClinician(ctx, reviewLimit(c))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, listResponse{Checkins: emptyIfNil(checkins), Insights: insight})

	default:
		return echo.NewHTTPError(http.StatusForbidden, "unauthorized access")
	}
}

// ListAcrossPatients is the clinician-only variant keyed "users".
func (h *Handler) ListAcrossPatients(c echo.Context) error {
	checkins, insight, err := h.svc.ListForClinician(c.Request().Context(), reviewLimit(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"users":        emptyIfNil(checkins),
		"llm_insights": insight,
	})
}

// reviewLimit narrows the clinician feed when the client asks for a
// page. Without an explicit limit the service's review window applies.
func reviewLimit(c echo.Context) int {
	if c.QueryParam("limit") == "" {
		return 0
	}
	return pagination.FromContext(c).Limit
}

func emptyIfNil(checkins []*CheckIn) []*CheckIn {
	if checkins == nil {
		return []*CheckIn{}
	}
	return checkins
}

func currentUserID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}
	return id, nil
}
