package checkin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Murugesh1804/revivewell-final/internal/platform/llm"
)

const insightSystemPrompt = "You are a mental health and addiction recovery expert. " +
	"Based on the following user check-in data, provide a personalized recovery plan, " +
	"including practical coping strategies, emotional support, and do's and don'ts. " +
	"Your advice should be positive, research-backed, and aligned with professional therapy recommendations."

// LLMInsights generates check-in narratives through the completion client.
type LLMInsights struct {
	client *llm.Client
}

func NewLLMInsights(client *llm.Client) *LLMInsights {
	return &LLMInsights{client: client}
}

func (g *LLMInsights) Generate(ctx context.Context, checkins []*CheckIn) (string, error) {
	data, err := json.Marshal(checkins)
	if err != nil {
		return "", fmt.Errorf("encode check-ins: %w", err)
	}
	user := fmt.Sprintf("Here are the latest check-ins:\n%s\nGenerate a structured response. Make it Short, just want two points in each", data)
	return g.client.Complete(ctx, insightSystemPrompt, user)
}
