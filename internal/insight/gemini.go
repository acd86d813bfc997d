package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

const modelName = "gemini-1.5-flash"

const promptHeader = `You are a friendly and encouraging financial assistant.
Analyze the following JSON data of a user's financial accounts.
- "Bank" and "Cash" are assets.
- "Credit Card" and "Loan Taken" are liabilities (debts). A negative balance on either is debt.

Provide one concise, helpful, and actionable insight based on their overall financial health.
Focus on their net worth, savings, or debt levels. For credit cards, consider their utilization (balance vs. limit).
Keep the insight to a maximum of 2-3 short sentences.
Do not use markdown or formatting. Just return the plain text insight.

Here is the account data:
`

// Advisor calls Gemini to produce a plain-text insight. The API key is read
// from the environment by the client (GEMINI_API_KEY or GOOGLE_API_KEY).
type Advisor struct {
	client *genai.Client
	model  string
}

func NewAdvisor(ctx context.Context) (*Advisor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Advisor{client: client, model: modelName}, nil
}

// Generate returns one short insight for the given snapshot.
func (a *Advisor) Generate(ctx context.Context, snap Snapshot) (string, error) {
	if len(snap.Accounts) == 0 {
		return "", errors.New("snapshot has no accounts")
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: promptHeader + string(payload)},
			},
		},
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("empty response from model")
	}

	slog.InfoContext(ctx, "Generated insight", "model", a.model, "length", len(text))
	return text, nil
}
