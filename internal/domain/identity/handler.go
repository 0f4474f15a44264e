package identity

import (
	"errors"
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

// RegisterRoutes mounts the public auth endpoints on public and the
// profile endpoints on the authenticated group.
func (h *Handler) RegisterRoutes(public, authed *echo.Group) {
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)

	authed.GET("/user/profile", h.GetProfile)
	authed.PUT("/user/profile", h.UpdateProfile)
	authed.POST("/new-user-form", h.SubmitIntake)
}

type authResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    *userView `json:"user"`
}

type userView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	UserType string    `json:"userType"`
}

func viewOf(u *User) *userView {
	return &userView{ID: u.ID, Name: u.Name, Email: u.Email, UserType: u.UserType}
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u, token, err := h.svc.Register(c.Request().Context(), in)
	if errors.Is(err, ErrDuplicateEmail) {
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    viewOf(u),
	})
}

func (h *Handler) Login(c echo.Context) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if in.Email == "" || in.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing email or password")
	}

	u, token, err := h.svc.Login(c.Request().Context(), in.Email, in.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		User:    viewOf(u),
	})
}

func (h *Handler) GetProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	u, p, err := h.svc.Profile(c.Request().Context(), userID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Flat shape: intake fields merged with the account fields.
	out := map[string]interface{}{
		"id":       u.ID,
		"name":     u.Name,
		"email":    u.Email,
		"userType": u.UserType,
	}
	if p != nil {
		out["dob"] = p.DOB
		out["contact_number"] = p.ContactNumber
		out["primary_substance"] = p.PrimarySubstance
		out["usage_duration"] = p.UsageDuration
		out["previous_treatment"] = p.PreviousTreatment
		out["primary_goal"] = p.PrimaryGoal
		out["specific_goals"] = p.SpecificGoals
		out["support_system"] = p.SupportSystem
	}
	return c.JSON(http.StatusOK, out)
}

type profileUpdate struct {
	Name string `json:"name"`
	PatientProfile
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var in profileUpdate
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var p *PatientProfile
	if auth.UserTypeFromContext(c.Request().Context()) == "patient" {
		p = &in.PatientProfile
	}
	if err := h.svc.UpdateProfile(c.Request().Context(), userID, in.Name, p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}

type intakeInput struct {
	DOB               string `json:"dob"`
	ContactNumber     string `json:"contactNumber"`
	PrimarySubstance  string `json:"primarySubstance"`
	UsageDuration     string `json:"usageDuration"`
	PreviousTreatment string `json:"previousTreatment"`
	PrimaryGoal       string `json:"primaryGoal"`
	SpecificGoals     string `json:"specificGoals"`
	SupportSystem     string `json:"supportSystem"`
}

func (h *Handler) SubmitIntake(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if auth.UserTypeFromContext(c.Request().Context()) != "patient" {
		return echo.NewHTTPError(http.StatusForbidden, "only patients can submit this form")
	}

	var in intakeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p := &PatientProfile{
		DOB:               in.DOB,
		ContactNumber:     in.ContactNumber,
		PrimarySubstance:  in.PrimarySubstance,
		UsageDuration:     in.UsageDuration,
		PreviousTreatment: in.PreviousTreatment,
		PrimaryGoal:       in.PrimaryGoal,
		SpecificGoals:     in.SpecificGoals,
		SupportSystem:     in.SupportSystem,
	}
	if err := h.svc.SubmitIntake(c.Request().Context(), userID, p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "New user form submitted successfully"})
}

func currentUserID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}
	return id, nil
}
