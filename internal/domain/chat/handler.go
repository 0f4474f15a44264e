// Package chat exposes the recovery-support conversation endpoint. Each
// request is a single stateless turn against the completion service.
package chat

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

const systemPrompt = "You are an addiction recovery consultant and mental health supporter. " +
	"You provide compassionate, research-backed advice on overcoming substance addiction, " +
	"coping mechanisms, therapy recommendations, and emotional support. " +
	"You do NOT discuss unrelated topics and always encourage professional consultation when necessary."

// Completer is the slice of the completion client the handler needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}

type Handler struct {
	llm Completer
}

func NewHandler(llm Completer) *Handler {
	return &Handler{llm: llm}
}

// RegisterRoutes mounts the chat endpoint. It is deliberately outside the
// /api group and unauthenticated, matching the client contract.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat", h.Chat)
}

func (h *Handler) Chat(c echo.Context) error {
	var in struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if in.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Message is required")
	}

	reply, err := h.llm.Complete(c.Request().Context(), systemPrompt, in.Message)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch response")
	}

	return c.JSON(http.StatusOK, map[string]string{"reply": reply})
}
